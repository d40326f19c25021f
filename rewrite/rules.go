package rewrite

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Rule maps a callee to the macro pair that replaces it. FirstArg, when
// set, names a required leading argument that is consumed rather than
// formatted (fprintf's stderr).
type Rule struct {
	Macro    string `toml:"macro"`
	LnMacro  string `toml:"ln_macro"`
	FirstArg string `toml:"first_arg"`
}

type Rules struct {
	Calls map[string]Rule `toml:"calls"`
}

// DefaultRules covers the libc printf family.
func DefaultRules() *Rules {
	return &Rules{
		Calls: map[string]Rule{
			"printf":  {Macro: "print", LnMacro: "println"},
			"fprintf": {Macro: "eprint", LnMacro: "eprintln", FirstArg: "stderr"},
		},
	}
}

// LoadRules reads a TOML rules file:
//
//	[calls.printf]
//	macro = "print"
//	ln_macro = "println"
func LoadRules(path string) (*Rules, error) {
	var r Rules
	if _, err := toml.DecodeFile(path, &r); err != nil {
		return nil, fmt.Errorf("failed to load rules file %q: %w", path, err)
	}
	if r.Calls == nil {
		r.Calls = map[string]Rule{}
	}
	return &r, nil
}
