package load

import (
	"io"

	"gopkg.in/yaml.v3"
)

// Dump writes the loaded model of pkgs to w as YAML.
func Dump(w io.Writer, pkgs []*Package) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(pkgs); err != nil {
		return err
	}
	return enc.Close()
}
