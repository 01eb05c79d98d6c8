package design

// The on-disk shape. TOML and YAML share it.

type fileDesign struct {
	Options fileOptions `toml:"options" yaml:"options"`
	Scopes  []fileScope `toml:"scope" yaml:"scope"`
	Exprs   []fileExpr  `toml:"expr" yaml:"expr"`
}

type fileOptions struct {
	IntegerWidth int  `toml:"integer_width" yaml:"integer_width"`
	Specify      bool `toml:"specify" yaml:"specify"`
	IcarusMisc   bool `toml:"icarus_misc" yaml:"icarus_misc"`
}

type fileScope struct {
	Name       string          `toml:"name" yaml:"name"`
	Kind       string          `toml:"kind" yaml:"kind"`
	Signals    []fileSignal    `toml:"signal" yaml:"signal"`
	Params     []fileParam     `toml:"param" yaml:"param"`
	Events     []string        `toml:"events" yaml:"events"`
	Genvar     *fileGenvar     `toml:"genvar" yaml:"genvar"`
	Specparams []fileSpecparam `toml:"specparam" yaml:"specparam"`
	Functions  []fileFunction  `toml:"function" yaml:"function"`
	Scopes     []fileScope     `toml:"scope" yaml:"scope"`
}

type fileSignal struct {
	Name   string  `toml:"name" yaml:"name"`
	Range  []int64 `toml:"range" yaml:"range"`
	Signed bool    `toml:"signed" yaml:"signed"`
	Domain string  `toml:"domain" yaml:"domain"`
	Array  []int64 `toml:"array" yaml:"array"`
}

type fileParam struct {
	Name  string  `toml:"name" yaml:"name"`
	Value string  `toml:"value" yaml:"value"`
	Range []int64 `toml:"range" yaml:"range"`
}

type fileGenvar struct {
	Name  string `toml:"name" yaml:"name"`
	Value int64  `toml:"value" yaml:"value"`
}

type fileSpecparam struct {
	Name  string `toml:"name" yaml:"name"`
	Value string `toml:"value" yaml:"value"`
}

type fileFunction struct {
	Name   string       `toml:"name" yaml:"name"`
	Return *fileSignal  `toml:"return" yaml:"return"`
	Ports  []fileSignal `toml:"port" yaml:"port"`
}

type fileExpr struct {
	Name   string `toml:"name" yaml:"name"`
	Scope  string `toml:"scope" yaml:"scope"`
	Text   string `toml:"text" yaml:"text"`
	Width  int    `toml:"width" yaml:"width"`
	SysArg bool   `toml:"sys_arg" yaml:"sys_arg"`
}
