package unitfile

type document struct {
	Unit      string          `toml:"unit"`
	Imports   []string        `toml:"imports"`
	Classes   []classEntry    `toml:"class"`
	Functions []functionEntry `toml:"function"`
	Enums     []enumEntry     `toml:"enum"`
	Vars      []varEntry      `toml:"var"`
}

type classEntry struct {
	Name       string          `toml:"name"`
	Namespace  string          `toml:"namespace"`
	Base       string          `toml:"base"`
	TypeParams []string        `toml:"type_params"`
	Constraint string          `toml:"constraint"`
	Vars       []varEntry      `toml:"var"`
	Functions  []functionEntry `toml:"function"`
	Classes    []classEntry    `toml:"class"`
	Enums      []enumEntry     `toml:"enum"`
}

type functionEntry struct {
	Name      string   `toml:"name"`
	Namespace string   `toml:"namespace"`
	Kind      string   `toml:"kind"`
	Params    []string `toml:"params"`
	Result    string   `toml:"result"`
	Flags     []string `toml:"flags"`
	// Body is nil for declarations without a body.
	Body *string `toml:"body"`
}

type enumEntry struct {
	Name       string   `toml:"name"`
	Namespace  string   `toml:"namespace"`
	Underlying string   `toml:"underlying"`
	Constants  []string `toml:"constants"`
}

type varEntry struct {
	Name      string `toml:"name"`
	Namespace string `toml:"namespace"`
	Type      string `toml:"type"`
}
