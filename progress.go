package dirsync

import (
	"fmt"
	"io"
)

// ProgressSteps is how many times a ProgressFunc fires over one transfer.
const ProgressSteps = 10

// ProgressFunc observes a transfer. complete and total are byte counts.
type ProgressFunc func(complete, total int64)

// DotProgress writes a single '.' to w on every callback.
func DotProgress(w io.Writer) ProgressFunc {
	return func(complete, total int64) {
		fmt.Fprint(w, ".")
	}
}

type progressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	fired    int
	callback ProgressFunc
}

func newProgressReader(r io.Reader, total int64, callback ProgressFunc) *progressReader {
	return &progressReader{reader: r, total: total, callback: callback}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	p.read += int64(n)
	if p.callback == nil {
		return n, err
	}

	if p.total <= 0 {
		if err == io.EOF && p.fired == 0 {
			p.fired++
			p.callback(p.read, p.total)
		}
		return n, err
	}

	// one callback per tenth of total crossed
	for p.fired < ProgressSteps && p.read*ProgressSteps >= p.total*int64(p.fired+1) {
		p.fired++
		p.callback(p.read, p.total)
	}

	return n, err
}
