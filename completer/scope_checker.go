package completer

//go:generate mockgen -package=completer -source=./scope_checker.go -destination=./scope_checker_mock.go
type scopeChecker interface {
	Selected(ns string) bool
}
