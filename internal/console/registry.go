package console

import "sync"

// Registry maps tokens to commands. Tokens are case-sensitive and unique;
// entries are never replaced or removed.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
	}
}

// Register adds cmd to the registry.
// Returns false without modifying the registry if the token is taken.
func (r *Registry) Register(cmd *Command) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[cmd.token]; exists {
		return false
	}
	r.commands[cmd.token] = cmd
	r.order = append(r.order, cmd.token)
	return true
}

// Lookup returns the command registered under token.
func (r *Registry) Lookup(token string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[token]
	return cmd, ok
}

// Tokens returns all registered tokens in registration order.
func (r *Registry) Tokens() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]string, len(r.order))
	copy(tokens, r.order)
	return tokens
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
