package repl

//go:generate mockgen -package=repl -source=./compile_submitter.go -destination=./compile_submitter_mock.go
type compileSubmitter interface {
	Submit(text string)
}
