// Package unitfile loads compilation units written as TOML declaration files
// (*.unit.toml) into the syntax-tree arenas.
//
// A unit file declares classes, generic classes, enums, free functions and
// global variables:
//
//	unit = "containers"
//	imports = ["core"]
//
//	[[class]]
//	name = "List"
//	namespace = "coll"
//	type_params = ["T", "A = Allocator<T>"]
//	constraint = "T is Copyable"
//
//	[[class.var]]
//	name = "head"
//	type = "Node<T>*"
//
//	[[class.function]]
//	kind = "constructor"
//	params = ["const List<T>& that"]
//	body = '''
//	    head = that.head;
//	'''
//
// Types, parameters, constraints and bodies are fragments handled by package
// parser. Bodies containing backslashes should use literal strings so that the
// fragment text matches the file byte for byte.
package unitfile
