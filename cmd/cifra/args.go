package main

import (
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var negativeShift = regexp.MustCompile(`^-\d+$`)

// escapeNegativeShifts moves bare negative numbers such as "-2" behind a
// "--" so they reach the command as positional arguments instead of being
// read as shorthand flags. Values of flags that take one ("--by -2") are
// left where they are.
func escapeNegativeShifts(root *cobra.Command, args []string) []string {
	cmd, _, err := root.Find(args)
	if err != nil || cmd == nil {
		cmd = root
	}

	var head, shifts, tail []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			tail = args[i:]
			break
		}
		if negativeShift.MatchString(a) && !(i > 0 && takesValue(cmd, args[i-1])) {
			shifts = append(shifts, a)
			continue
		}
		head = append(head, a)
	}
	if len(shifts) == 0 {
		return args
	}

	out := append(head, "--")
	if len(tail) > 0 {
		// a "--" already present keeps its positionals after ours
		tail = tail[1:]
	}
	out = append(out, shifts...)
	return append(out, tail...)
}

func takesValue(cmd *cobra.Command, arg string) bool {
	if !strings.HasPrefix(arg, "-") || strings.Contains(arg, "=") {
		return false
	}

	var f *pflag.Flag
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		f = lookupFlag(cmd, func(fs *pflag.FlagSet) *pflag.Flag { return fs.Lookup(name) })
	} else if short := strings.TrimPrefix(arg, "-"); len(short) == 1 {
		f = lookupFlag(cmd, func(fs *pflag.FlagSet) *pflag.Flag { return fs.ShorthandLookup(short) })
	}
	return f != nil && f.NoOptDefVal == ""
}

func lookupFlag(cmd *cobra.Command, find func(*pflag.FlagSet) *pflag.Flag) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := find(c.Flags()); f != nil {
			return f
		}
		if f := find(c.PersistentFlags()); f != nil {
			return f
		}
	}
	return nil
}
