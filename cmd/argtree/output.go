package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/janert/argtree/internal/treefile"
)

type writeFunc func(w io.Writer, values []treefile.Value) error

func outputWriter(format string) (writeFunc, error) {
	switch strings.ToLower(format) {
	case "env":
		return writeEnv, nil
	case "json":
		return writeJSON, nil
	case "yaml", "yml":
		return writeYAML, nil
	}
	return nil, fmt.Errorf("unknown output format: %q", format)
}

// writeEnv writes NAME='value' lines that a POSIX shell can eval.
func writeEnv(w io.Writer, values []treefile.Value) error {
	for _, v := range values {
		_, err := fmt.Fprintf(w, "%s=%s\n", envName(v.Name), shellQuote(fmt.Sprint(v.Value)))
		if err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, values []treefile.Value) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(values)
}

func writeYAML(w io.Writer, values []treefile.Value) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(values); err != nil {
		return err
	}
	return enc.Close()
}

// envName upper-cases name and replaces everything but letters and digits
// by '_'. Names starting with a digit get a leading '_'.
func envName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if i == 0 && unicode.IsDigit(r) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
