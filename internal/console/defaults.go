package console

import "strings"

// registerDefaults installs the bootstrap commands.
func (c *Console) registerDefaults() {
	c.registry.Register(NewCommand("help", c.helpCommand))
	c.registry.Register(NewCommand("clear", c.clearCommand))
	c.registry.Register(NewCommand("echo", echoCommand))
	c.registry.Register(NewCommand("list", c.listCommand))
}

// helpCommand lists every registered command token, one per line.
func (c *Console) helpCommand(_ []string) string {
	return lines(c.registry.Tokens())
}

// clearCommand empties the transcript. Its own result is the empty snapshot.
func (c *Console) clearCommand(_ []string) string {
	c.transcript.Clear()
	return c.transcript.Snapshot()
}

// echoCommand writes each argument followed by a single space, then a newline.
func echoCommand(args []string) string {
	var sb strings.Builder
	for _, arg := range args {
		sb.WriteString(arg)
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	return sb.String()
}

// listCommand lists every cvar name, one per line.
func (c *Console) listCommand(_ []string) string {
	if c.cvars == nil {
		return ""
	}
	return lines(c.cvars.CvarNames())
}

func lines(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(item)
		sb.WriteByte('\n')
	}
	return sb.String()
}
