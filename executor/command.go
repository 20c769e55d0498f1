package executor

import (
	"fmt"
	"strings"

	"github.com/kakkky/gosnip/errs"
	"github.com/kakkky/gosnip/types"
	"github.com/kakkky/gosnip/version"
)

const helpText = `:vars              list declared variables
:delete <name>     delete a variable
:using [ns ...]    list or select namespaces
:unusing <ns ...>  unselect namespaces
:version           show the gosnip version
:help              show this help`

// runCommand はコロンで始まるコンソールのコマンドを実行する
func (e *Executor) runCommand(input string) error {
	fields := strings.Fields(strings.TrimPrefix(input, commandPrefix))
	if len(fields) == 0 {
		return errs.NewBadInputError("empty command")
	}
	name, args := fields[0], fields[1:]
	switch name {
	case "vars":
		return e.listVars()
	case "delete":
		return e.deleteVars(args)
	case "using":
		return e.use(args)
	case "unusing":
		return e.unuse(args)
	case "version":
		version.PrintVersion(e.out)
		return nil
	case "help":
		fmt.Fprintln(e.out, helpText)
		return nil
	default:
		return errs.NewBadInputError(fmt.Sprintf("unknown command: %s%s", commandPrefix, name))
	}
}

func (e *Executor) listVars() error {
	for _, decl := range e.declRegistry.Decls() {
		fmt.Fprintf(e.out, "%s = %s\n", decl.Name, describe(decl.Value))
	}
	return nil
}

func (e *Executor) deleteVars(names []string) error {
	if len(names) == 0 {
		return errs.NewBadInputError("usage: :delete <name>")
	}
	var missing []string
	for _, name := range names {
		if !e.declRegistry.Delete(types.DeclName(name)) {
			missing = append(missing, name)
			continue
		}
		fmt.Fprintf(e.out, "deleted %s\n", name)
	}
	if len(missing) < len(names) {
		e.Invalidate()
	}
	if len(missing) > 0 {
		return errs.NewBadInputError("undefined variable: " + strings.Join(missing, ", "))
	}
	return nil
}

func (e *Executor) use(namespaces []string) error {
	if len(namespaces) == 0 {
		for _, ns := range e.usings.List() {
			fmt.Fprintln(e.out, ns)
		}
		return nil
	}
	changed := false
	for _, ns := range namespaces {
		if e.usings.Add(ns) {
			changed = true
		}
	}
	if changed {
		e.Invalidate()
	}
	return nil
}

func (e *Executor) unuse(namespaces []string) error {
	if len(namespaces) == 0 {
		return errs.NewBadInputError("usage: :unusing <namespace>")
	}
	changed := false
	for _, ns := range namespaces {
		if e.usings.Remove(ns) {
			changed = true
		}
	}
	if changed {
		e.Invalidate()
	}
	return nil
}
