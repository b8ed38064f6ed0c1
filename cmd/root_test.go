package cmd

import (
	"testing"

	"markestedt/whisperbatch/output"
)

func TestOutputFlagAliases(t *testing.T) {
	for _, name := range []string{"otxt", "ovtt", "osrt", "ocsv"} {
		f := rootCmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("flag --%s is not registered", name)
		}
		if !f.Hidden {
			t.Errorf("flag --%s should be hidden from help", name)
		}
		long := rootCmd.Flags().Lookup("output-" + name[1:])
		if long == nil {
			t.Fatalf("flag --output-%s is not registered", name[1:])
		}
	}
}

func TestOutputAliasSelectsFormat(t *testing.T) {
	flagOutputTxt = false
	flagOutputVtt = false
	flagOutputSrt = false
	flagOutputCsv = false
	defer func() { flagOutputCsv = false }()

	if err := rootCmd.Flags().Set("ocsv", "true"); err != nil {
		t.Fatalf("Set(ocsv) returned error: %v", err)
	}
	formats := requestedFormats()
	if len(formats) != 1 || formats[0] != output.FormatCsv {
		t.Fatalf("requestedFormats() = %v, want [csv]", formats)
	}
}
