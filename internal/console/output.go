package console

import (
	"fmt"
	"io"
	"sync"
)

// printer serialises writes to the console so a message line and its
// prompt are never split by the input loop's own output.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) print(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, s)
}

func (p *printer) printf(format string, args ...any) {
	p.print(fmt.Sprintf(format, args...))
}
