package compiler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kakkky/gosnip/errs"
	"github.com/kakkky/gosnip/snippet"
)

const (
	DefaultPollInterval = 10 * time.Millisecond
	DefaultTimeout      = 2 * time.Second
)

// Result はバックグラウンドでコンパイルした結果
type Result struct {
	Text string
	// 入力を受け付けた順の通し番号
	Seq  uint64
	Unit *CompiledUnit
	Err  error
}

// Worker は最新の入力だけをバックグラウンドでコンパイルする
// 入力が変わると実行中のコンパイルをキャンセルし、古い入力の結果は公開しない
type Worker struct {
	engine   *Engine
	selected func() []string
	onError  func(error)

	PollInterval time.Duration
	Timeout      time.Duration

	mu         sync.Mutex
	latest     string
	latestSeq  uint64
	startedSeq uint64
	cancel     context.CancelFunc
	current    Result
	published  bool
	jobs       sync.WaitGroup
}

// NewWorker はWorkerのインスタンスを生成する
// selectedはコンパイルを始める度に呼ばれ、選択中の名前空間を返す
func NewWorker(engine *Engine, selected func() []string) *Worker {
	return &Worker{
		engine:       engine,
		selected:     selected,
		onError:      func(error) {},
		PollInterval: DefaultPollInterval,
		Timeout:      DefaultTimeout,
	}
}

// OnError はコンパイル中の内部エラーの通知先を設定する
func (w *Worker) OnError(fn func(error)) {
	w.onError = fn
}

// Submit は最新の入力を更新する。直前と同じ入力なら何もしない
func (w *Worker) Submit(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.latestSeq > 0 && w.latest == text {
		return
	}
	w.latest = text
	w.latestSeq++
}

// Invalidate は最新の入力を再度コンパイルさせる
// 変数の追加や削除で生成するソースが変わる場合に呼ぶ
func (w *Worker) Invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.latestSeq++
}

// Run はctxがキャンセルされるまで最新の入力を監視する
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()
	defer w.stop()
	for {
		w.startLatest(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) startLatest(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.latestSeq == w.startedSeq {
		return
	}
	if w.cancel != nil {
		w.cancel()
	}
	jobCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.startedSeq = w.latestSeq

	text, seq := w.latest, w.latestSeq
	selected := w.selected()
	w.jobs.Add(1)
	go w.compile(jobCtx, text, seq, selected)
}

func (w *Worker) compile(ctx context.Context, text string, seq uint64, selected []string) {
	defer w.jobs.Done()
	res := Result{Text: text, Seq: seq}
	func() {
		defer func() {
			if r := recover(); r != nil {
				res.Err = errs.NewInternalError(fmt.Sprintf("compile panicked: %v", r))
			}
		}()
		res.Unit, res.Err = w.engine.Compile(ctx, snippet.ParseAssignment(text), selected)
	}()
	w.publish(ctx, res)
}

// publish は結果が最新の入力のもので、公開済みの結果より新しい場合だけ公開する
func (w *Worker) publish(ctx context.Context, res Result) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ctx.Err() != nil || res.Seq != w.latestSeq {
		return false
	}
	if w.published && res.Seq <= w.current.Seq {
		return false
	}
	if res.Err != nil {
		w.onError(res.Err)
	}
	w.current = res
	w.published = true
	return true
}

func (w *Worker) stop() {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()
	w.jobs.Wait()
}

// Current は公開済みの最新の結果を返す
func (w *Worker) Current() (Result, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current, w.published
}

// Await は入力を最新にし、そのコンパイル結果が公開されるまで待つ
// Timeoutを過ぎても公開されなければTimeoutErrorを返す
func (w *Worker) Await(ctx context.Context, text string) (*CompiledUnit, error) {
	w.Submit(text)
	deadline := time.Now().Add(w.Timeout)
	for {
		w.mu.Lock()
		if w.published && w.current.Text == text && w.current.Seq == w.latestSeq {
			res := w.current
			w.mu.Unlock()
			return res.Unit, res.Err
		}
		w.mu.Unlock()

		if !time.Now().Before(deadline) {
			return nil, errs.NewTimeoutError(text, w.Timeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(w.PollInterval):
		}
	}
}
