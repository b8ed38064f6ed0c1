package params

import (
	"sort"

	"github.com/spf13/pflag"
)

// RegisterFlags derives one CLI flag per schema and mapping entry. Scalar
// options use their mapped name when one exists, otherwise the canonical
// name; group entries expose only their mapped flat names. Flag spelling
// replaces underscores with hyphens.
func RegisterFlags(fs *pflag.FlagSet) {
	names := make([]string, 0, len(Schema))
	for name := range Schema {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		opt := Schema[name]
		if opt.Kind == KindGroup {
			defaults := opt.Default.(map[string]any)
			fields := make([]string, 0, len(defaults))
			for field := range defaults {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				flat, ok := Mapping[name+PathSep+field]
				if !ok {
					continue
				}
				registerValue(fs, FlagName(flat), defaults[field], "engine parameter "+name+PathSep+field)
			}
			continue
		}

		flagName := name
		if flat, ok := Mapping[name]; ok {
			flagName = flat
		}
		registerValue(fs, FlagName(flagName), opt.Default, opt.Help)
	}
}

func registerValue(fs *pflag.FlagSet, name string, def any, help string) {
	switch v := def.(type) {
	case bool:
		fs.Bool(name, v, help)
	case int:
		fs.Int(name, v, help)
	case float64:
		fs.Float64(name, v, help)
	case string:
		fs.String(name, v, help)
	}
}

// Collect gathers every flag the user explicitly set, keyed by option name
// (hyphens back to underscores). The result is the flat argument set fed to
// [Resolve]; names outside the schema and mapping are ignored there.
func Collect(fs *pflag.FlagSet) map[string]any {
	supplied := make(map[string]any)
	fs.Visit(func(f *pflag.Flag) {
		name := ArgName(f.Name)
		switch f.Value.Type() {
		case "bool":
			v, _ := fs.GetBool(f.Name)
			supplied[name] = v
		case "int":
			v, _ := fs.GetInt(f.Name)
			supplied[name] = v
		case "float64":
			v, _ := fs.GetFloat64(f.Name)
			supplied[name] = v
		case "string":
			v, _ := fs.GetString(f.Name)
			supplied[name] = v
		}
	})
	return supplied
}
