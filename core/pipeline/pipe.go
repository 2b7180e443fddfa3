package pipeline

import "os"

// pipe owns the two ends of one anonymous pipe. Each end is closed at most
// once; the zero value is safe to close.
type pipe struct {
	r, w *os.File
}

func (p *pipe) closeRead() {
	if p.r != nil {
		p.r.Close()
		p.r = nil
	}
}

func (p *pipe) closeWrite() {
	if p.w != nil {
		p.w.Close()
		p.w = nil
	}
}

func (p *pipe) close() {
	p.closeRead()
	p.closeWrite()
}

func closeFile(f **os.File) {
	if *f != nil {
		(*f).Close()
		*f = nil
	}
}
