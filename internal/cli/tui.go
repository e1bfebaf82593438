package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/daypatu/ers-pymatching/pkg/decode"
	"github.com/daypatu/ers-pymatching/pkg/matchgraph"
	"github.com/daypatu/ers-pymatching/pkg/observability"
)

// Batch decode progress display. The decode itself runs in a worker
// goroutine; the bubbletea model only renders counters fed to it
// through program messages.

var tuiFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type shotDoneMsg struct {
	cacheHit bool
	weight   int64
}

type batchDoneMsg struct{}

type batchErrMsg struct{ err error }

type tuiTickMsg struct{}

type batchModel struct {
	total     int
	done      int
	cacheHits int
	weight    int64
	frame     int
	err       error
	cancelled bool
}

func newBatchModel(total int) batchModel {
	return batchModel{total: total}
}

func (m batchModel) Init() tea.Cmd {
	return tuiTick()
}

func tuiTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return tuiTickMsg{}
	})
}

func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	case tuiTickMsg:
		m.frame++
		return m, tuiTick()
	case shotDoneMsg:
		m.done++
		m.weight += msg.weight
		if msg.cacheHit {
			m.cacheHits++
		}
	case batchDoneMsg:
		return m, tea.Quit
	case batchErrMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m batchModel) View() string {
	if m.err != nil || m.done == m.total {
		return ""
	}
	frame := styleIconSpinner.Render(tuiFrames[m.frame%len(tuiFrames)])
	line := fmt.Sprintf("%s decoding shots %d/%d", frame, m.done, m.total)
	if m.cacheHits > 0 {
		line += StyleDim.Render(fmt.Sprintf(" · %d cached", m.cacheHits))
	}
	line += StyleDim.Render(fmt.Sprintf(" · weight %d", m.weight))
	return line
}

// runBatchTUI decodes a batch while showing interactive progress.
func runBatchTUI(ctx context.Context, runner *decode.Runner, g *matchgraph.Graph, graphHash string, shots [][]int, opts decode.Options) (*decode.BatchResult, error) {
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newBatchModel(len(shots)), tea.WithOutput(os.Stderr))

	type outcome struct {
		batch *decode.BatchResult
		err   error
	}
	resultCh := make(chan outcome, 1)

	go func() {
		start := time.Now()
		observability.Decode().OnBatchStart(workerCtx, graphHash, len(shots))
		batch := &decode.BatchResult{}
		for i, events := range shots {
			if err := workerCtx.Err(); err != nil {
				observability.Decode().OnBatchComplete(workerCtx, graphHash, batch.Stats.Shots, time.Since(start), err)
				resultCh <- outcome{err: err}
				p.Send(batchErrMsg{err: err})
				return
			}
			m, hit, err := runner.DecodeWithCacheInfo(workerCtx, g, graphHash, events, opts)
			if err != nil {
				err = fmt.Errorf("shot %d: %w", i, err)
				observability.Decode().OnBatchComplete(workerCtx, graphHash, batch.Stats.Shots, time.Since(start), err)
				resultCh <- outcome{err: err}
				p.Send(batchErrMsg{err: err})
				return
			}
			batch.Matchings = append(batch.Matchings, *m)
			batch.Stats.Shots++
			batch.Stats.TotalWeight += m.Weight
			if hit {
				batch.Stats.CacheHits++
			}
			p.Send(shotDoneMsg{cacheHit: hit, weight: m.Weight})
		}
		batch.Stats.Duration = time.Since(start)
		observability.Decode().OnBatchComplete(workerCtx, graphHash, batch.Stats.Shots, batch.Stats.Duration, nil)
		resultCh <- outcome{batch: batch}
		p.Send(batchDoneMsg{})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-resultCh
		return nil, err
	}
	if fm, ok := final.(batchModel); ok && fm.cancelled {
		cancel()
		<-resultCh
		return nil, context.Canceled
	}

	out := <-resultCh
	return out.batch, out.err
}
