package cvar

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/quocvuong92/devconsole/internal/logging"
)

// Flags modify how a cvar may be written.
type Flags uint8

const (
	// ReadOnly rejects every write from the console
	ReadOnly Flags = 1 << iota
	// Archive persists the value after each successful write
	Archive
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// String lists the set flags, e.g. "readonly,archive".
func (f Flags) String() string {
	var parts []string
	if f.Has(ReadOnly) {
		parts = append(parts, "readonly")
	}
	if f.Has(Archive) {
		parts = append(parts, "archive")
	}
	return strings.Join(parts, ",")
}

// Definition describes a cvar to be created.
type Definition struct {
	Name        string
	Kind        Kind
	Default     string
	Flags       Flags
	Min         *float64 // inclusive lower bound for int and float kinds
	Max         *float64 // inclusive upper bound for int and float kinds
	// Choices, if set, lists the only accepted values, matched without
	// regard to case and stored in the spelling given here.
	Choices     []string
	Description string

	// OnChange is called after a successful write, outside the store lock
	OnChange func(Value)
}

// Info is a read-only snapshot of a cvar.
type Info struct {
	Name        string
	Kind        Kind
	Flags       Flags
	Value       Value
	Default     Value
	Description string
}

// Persister stores archived cvar values.
type Persister interface {
	Persist(name, value string) error
}

type variable struct {
	def   Definition
	dflt  Value
	value Value
}

// Store is a set of cvars. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	vars      map[string]*variable
	persister Persister
	log       *logging.FieldLogger
}

// Option configures a Store.
type Option func(*Store)

// WithPersister sets where archived values are saved.
func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persister = p
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l.WithFields(logging.Fields{"component": "cvar"})
		}
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		vars: make(map[string]*variable),
		log:  logging.Discard().WithFields(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Define adds a cvar. The default value must parse as the cvar's kind and
// lie within its bounds.
func (s *Store) Define(def Definition) error {
	if !validName(def.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, def.Name)
	}

	dflt, err := Parse(def.Kind, def.Default)
	if err != nil {
		return fmt.Errorf("cvar %s: default: %w", def.Name, err)
	}
	dflt, err = validate(def, dflt)
	if err != nil {
		return fmt.Errorf("cvar %s: default: %w", def.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vars[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, def.Name)
	}
	s.vars[def.Name] = &variable{def: def, dflt: dflt, value: dflt}
	return nil
}

// MustDefine is like Define but panics on error. It is intended for
// built-in definitions known at compile time.
func (s *Store) MustDefine(def Definition) {
	if err := s.Define(def); err != nil {
		panic(err)
	}
}

// ContainsCvar reports whether name is defined.
func (s *Store) ContainsCvar(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.vars[name]
	return ok
}

// LookUp returns the current value of name.
func (s *Store) LookUp(name string) (fmt.Stringer, bool) {
	v, ok := s.Value(name)
	if !ok {
		return nil, false
	}
	return v, true
}

// Value returns the typed current value of name.
func (s *Store) Value(name string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[name]
	if !ok {
		return Value{}, false
	}
	return v.value, true
}

// Get returns a snapshot of the named cvar.
func (s *Store) Get(name string) (Info, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[name]
	if !ok {
		return Info{}, false
	}
	return v.info(), true
}

// All returns snapshots of every cvar sorted by name.
func (s *Store) All() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]Info, 0, len(s.vars))
	for _, v := range s.vars {
		infos = append(infos, v.info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// CvarNames returns all cvar names in lexical order.
func (s *Store) CvarNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteTo coerces raw to the cvar's kind and stores it.
// Every failure is an *AssignmentError; the stored value is unchanged.
func (s *Store) WriteTo(name, raw string) error {
	s.mu.Lock()
	v, ok := s.vars[name]
	if !ok {
		s.mu.Unlock()
		return &AssignmentError{Name: name, Value: raw, Err: ErrUnknown}
	}
	if v.def.Flags.Has(ReadOnly) {
		s.mu.Unlock()
		return &AssignmentError{Name: name, Value: raw, Err: ErrReadOnly}
	}

	parsed, err := Parse(v.def.Kind, raw)
	if err == nil {
		parsed, err = validate(v.def, parsed)
	}
	if err != nil {
		s.mu.Unlock()
		return &AssignmentError{Name: name, Value: raw, Err: err}
	}

	v.value = parsed
	def := v.def
	s.mu.Unlock()

	s.afterWrite(def, parsed)
	return nil
}

// Reset restores name to its default value, ignoring ReadOnly.
func (s *Store) Reset(name string) error {
	s.mu.Lock()
	v, ok := s.vars[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	v.value = v.dflt
	def, value := v.def, v.value
	s.mu.Unlock()

	s.afterWrite(def, value)
	return nil
}

// Restore applies previously archived values. Unknown names, cvars not
// flagged Archive and unparsable values are skipped. The persister is not
// called. Returns the number of values applied.
func (s *Store) Restore(values map[string]string) int {
	applied := 0
	for name, raw := range values {
		s.mu.Lock()
		v, ok := s.vars[name]
		if !ok || !v.def.Flags.Has(Archive) {
			s.mu.Unlock()
			s.log.Debug("Skipping archived value", logging.Fields{"cvar": name})
			continue
		}
		parsed, err := Parse(v.def.Kind, raw)
		if err == nil {
			parsed, err = validate(v.def, parsed)
		}
		if err != nil {
			s.mu.Unlock()
			s.log.Warn("Ignoring invalid archived value", logging.Fields{"cvar": name, "value": raw, "error": err.Error()})
			continue
		}
		v.value = parsed
		onChange := v.def.OnChange
		s.mu.Unlock()

		if onChange != nil {
			onChange(parsed)
		}
		applied++
	}
	return applied
}

// Archived returns the current values of all cvars flagged Archive.
func (s *Store) Archived() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string)
	for name, v := range s.vars {
		if v.def.Flags.Has(Archive) {
			out[name] = v.value.String()
		}
	}
	return out
}

func (s *Store) afterWrite(def Definition, value Value) {
	if def.OnChange != nil {
		def.OnChange(value)
	}
	if def.Flags.Has(Archive) && s.persister != nil {
		// The write already succeeded; a persistence failure only costs the
		// value on next start.
		if err := s.persister.Persist(def.Name, value.String()); err != nil {
			s.log.Error("Failed to persist cvar", err, logging.Fields{"cvar": def.Name})
		}
	}
}

func (v *variable) info() Info {
	return Info{
		Name:        v.def.Name,
		Kind:        v.def.Kind,
		Flags:       v.def.Flags,
		Value:       v.value,
		Default:     v.dflt,
		Description: v.def.Description,
	}
}

// validate applies the definition's bounds and choices to a parsed value
// and returns the value to store.
func validate(def Definition, v Value) (Value, error) {
	if err := checkRange(def, v); err != nil {
		return Value{}, err
	}
	if len(def.Choices) == 0 {
		return v, nil
	}
	for _, choice := range def.Choices {
		if strings.EqualFold(choice, v.String()) {
			return Parse(def.Kind, choice)
		}
	}
	return Value{}, fmt.Errorf("%w: %q is not one of %s", ErrInvalidValue, v, strings.Join(def.Choices, ", "))
}

func checkRange(def Definition, v Value) error {
	if def.Kind != KindInt && def.Kind != KindFloat {
		return nil
	}
	f := v.Float()
	if def.Min != nil && f < *def.Min {
		return fmt.Errorf("%w: %s < %v", ErrOutOfRange, v, *def.Min)
	}
	if def.Max != nil && f > *def.Max {
		return fmt.Errorf("%w: %s > %v", ErrOutOfRange, v, *def.Max)
	}
	return nil
}

// validName rejects names that could never be typed as a single token.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
