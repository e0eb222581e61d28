package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Unit file loading
	UnitInfo           Code = 2000
	UnitSyntax         Code = 2001
	UnitBadTypeExpr    Code = 2002
	UnitBadExpr        Code = 2003
	UnitUnknownKind    Code = 2004
	UnitMissingName    Code = 2005
	UnitBadConstraint  Code = 2006
	UnitDuplicateEntry Code = 2007

	// Name and type binding
	SemaInfo              Code = 3000
	SemaError             Code = 3001
	SemaDuplicateSymbol   Code = 3002
	SemaUnresolvedName    Code = 3003
	SemaUnresolvedType    Code = 3004
	SemaNotAType          Code = 3005
	SemaNotCallable       Code = 3006
	SemaBadBaseClass      Code = 3007
	SemaReturnMismatch    Code = 3008
	SemaCyclicInheritance Code = 3009

	// Overload resolution (3100-3119)
	SemaNoViableFunction     Code = 3100
	SemaAmbiguousCall        Code = 3101
	SemaExplicitCastRequired Code = 3102
	SemaSuppressedFunction   Code = 3103
	SemaNoConversion         Code = 3104
	SemaAbstractCall         Code = 3105

	// Generic instantiation (3120-3139)
	SemaTooFewTemplateArgs     Code = 3120
	SemaTooManyTemplateArgs    Code = 3121
	SemaConstraintNotSatisfied Code = 3122
	SemaNotGenericClass        Code = 3123
	SemaInstantiationTooDeep   Code = 3124
	SemaMemberBindingFailed    Code = 3125

	// Internal consistency (3190-3199)
	SemaInternal Code = 3190

	// I/O
	IOLoadFileError Code = 4000
	IOCacheError    Code = 4001

	// Import/export of instantiations
	ExpImportInstantiation Code = 4100
	ExpSchemaMismatch      Code = 4101

	// Project
	ProjInfo          Code = 5000
	ProjMissingUnit   Code = 5001
	ProjImportCycle   Code = 5002
	ProjDuplicateUnit Code = 5003
	ProjUnitFailed    Code = 5004
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                "Unknown error",
		UnitInfo:                   "Unit file information",
		UnitSyntax:                 "Malformed unit file",
		UnitBadTypeExpr:            "Malformed type expression",
		UnitBadExpr:                "Malformed expression",
		UnitUnknownKind:            "Unknown declaration kind",
		UnitMissingName:            "Declaration without a name",
		UnitBadConstraint:          "Malformed constraint expression",
		UnitDuplicateEntry:         "Duplicate entry",
		SemaInfo:                   "Semantic information",
		SemaError:                  "Semantic error",
		SemaDuplicateSymbol:        "Duplicate symbol",
		SemaUnresolvedName:         "Unresolved name",
		SemaUnresolvedType:         "Unresolved type",
		SemaNotAType:               "Name does not denote a type",
		SemaNotCallable:            "Expression is not callable",
		SemaBadBaseClass:           "Invalid base class",
		SemaReturnMismatch:         "Return value does not match the function result",
		SemaCyclicInheritance:      "Cyclic inheritance",
		SemaNoViableFunction:       "No viable function",
		SemaAmbiguousCall:          "Ambiguous call",
		SemaExplicitCastRequired:   "Conversion requires an explicit cast",
		SemaSuppressedFunction:     "Call to a suppressed function",
		SemaNoConversion:           "No conversion between types",
		SemaAbstractCall:           "Call to an abstract function",
		SemaTooFewTemplateArgs:     "Too few template arguments",
		SemaTooManyTemplateArgs:    "Too many template arguments",
		SemaConstraintNotSatisfied: "Constraint not satisfied",
		SemaNotGenericClass:        "Target is not a generic class",
		SemaInstantiationTooDeep:   "Instantiation nesting too deep",
		SemaMemberBindingFailed:    "Member function could not be bound",
		SemaInternal:               "Internal consistency failure",
		IOLoadFileError:            "I/O load file error",
		IOCacheError:               "Instantiation cache error",
		ExpImportInstantiation:     "Imported instantiation could not be restored",
		ExpSchemaMismatch:          "Exported instantiation has an unknown schema",
		ProjInfo:                   "Project information",
		ProjMissingUnit:            "Missing unit",
		ProjImportCycle:            "Import cycle detected",
		ProjDuplicateUnit:          "Duplicate unit definition",
		ProjUnitFailed:             "Imported unit has errors",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("UNT%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
