package cvar

import (
	"fmt"

	"github.com/quocvuong92/devconsole/internal/config"
)

// DefinitionsFromConfig converts declarations from config files.
func DefinitionsFromConfig(cvars []config.CvarConfig) ([]Definition, error) {
	defs := make([]Definition, 0, len(cvars))
	for _, cv := range cvars {
		kind, err := ParseKind(cv.Kind)
		if err != nil {
			return nil, fmt.Errorf("cvar %s: %w", cv.Name, err)
		}

		var flags Flags
		if cv.ReadOnly {
			flags |= ReadOnly
		}
		if cv.Archive {
			flags |= Archive
		}

		def := Definition{
			Name:        cv.Name,
			Kind:        kind,
			Default:     cv.Default,
			Flags:       flags,
			Min:         cv.Min,
			Max:         cv.Max,
			Choices:     cv.Choices,
			Description: cv.Description,
		}
		if def.Default == "" && kind != KindString {
			def.Default = zeroLiteral(kind)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// DefineAll defines every definition, stopping at the first error.
func (s *Store) DefineAll(defs []Definition) error {
	for _, def := range defs {
		if err := s.Define(def); err != nil {
			return err
		}
	}
	return nil
}

func zeroLiteral(kind Kind) string {
	switch kind {
	case KindBool:
		return "false"
	default:
		return "0"
	}
}
