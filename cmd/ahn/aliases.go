package main

var verbAliases = map[string]string{
	"-h":        "help",
	"--h":       "help",
	"-help":     "help",
	"--help":    "help",
	"-v":        "version",
	"--v":       "version",
	"-version":  "version",
	"--version": "version",
	"-":         "start",
}

// normalizeArgs rewrites a leading legacy alias to its command name.
func normalizeArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	verb, ok := verbAliases[args[0]]
	if !ok {
		return args
	}
	out := make([]string, 0, len(args))
	out = append(out, verb)
	return append(out, args[1:]...)
}
