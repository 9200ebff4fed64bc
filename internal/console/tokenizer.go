package console

import "strings"

// Expression is a parsed input line: a head token and its arguments.
type Expression struct {
	Token string
	Args  []string
}

// Parse splits a raw line into an Expression.
//
// Any run of Unicode whitespace separates tokens, so consecutive spaces
// never produce empty arguments. Returns false if the line is blank.
func Parse(line string) (Expression, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Expression{}, false
	}
	return Expression{
		Token: fields[0],
		Args:  fields[1:],
	}, true
}

// JoinArgs reassembles arguments into a single value separated by one space.
// Original whitespace runs are not preserved.
func JoinArgs(args []string) string {
	return strings.Join(args, " ")
}
