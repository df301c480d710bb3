package paper

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"hftbot-go/internal/execution"
)

// JournalEntry is one line of the trade journal: the fill plus running totals.
type JournalEntry struct {
	execution.Trade
	Notional      float64 `json:"notional"`
	CumulativePnL float64 `json:"cumulative_pnl"`
	Fees          float64 `json:"cumulative_fees"`
}

// JSONLRecorder appends one JournalEntry per trade. The file is an export
// only; the engine never reads it back.
type JSONLRecorder struct {
	mu       sync.Mutex
	file     *os.File
	enc      *json.Encoder
	realized float64
	fees     float64
	written  int
	err      error
}

// NewJSONLRecorder creates/opens the target file and returns a recorder.
func NewJSONLRecorder(path string) (*JSONLRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONLRecorder{
		file: file,
		enc:  json.NewEncoder(file),
	}, nil
}

// Record appends trade with the session's running realized P&L and fees.
// After the first write error, or after Close, it does nothing.
func (r *JSONLRecorder) Record(trade execution.Trade) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enc == nil || r.err != nil {
		return
	}
	r.realized += trade.RealizedPnL
	r.fees += trade.Commission
	entry := JournalEntry{
		Trade:         trade,
		Notional:      trade.Price * float64(trade.Qty),
		CumulativePnL: r.realized,
		Fees:          r.fees,
	}
	if err := r.enc.Encode(entry); err != nil {
		r.err = err
		return
	}
	r.written++
}

// Written returns how many entries reached the file.
func (r *JSONLRecorder) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Err returns the write error that stopped the journal, if any.
func (r *JSONLRecorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close syncs and closes the file. Later calls are no-ops.
func (r *JSONLRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	syncErr := r.file.Sync()
	err := r.file.Close()
	r.file = nil
	r.enc = nil
	if syncErr != nil {
		return syncErr
	}
	return err
}
