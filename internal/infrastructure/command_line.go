package infrastructure

import "strings"

// shellSpecialChars are characters that change meaning when pasted into a shell
const shellSpecialChars = " \t'\"$`\\!*?[](){}|;<>&~#%\n\r"

// quoteArg renders one argument so the logged command line can be pasted
// back into a shell. exec.Command itself never needs this.
func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, shellSpecialChars) {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
}

// CommandLine renders binary and args as a single shell-safe line for logs
func CommandLine(binary string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}
