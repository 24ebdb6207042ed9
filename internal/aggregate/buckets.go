package aggregate

import (
	"bytes"

	"github.com/goccy/go-json"

	"lupa/internal/core"
)

// NotAvailable is reported as the top key of an empty breakdown.
const NotAvailable = "N/A"

type Bucket struct {
	Key   string
	Total core.Money
}

// Buckets is a breakdown in first-seen key order. It encodes as a JSON
// object whose keys keep that order.
type Buckets []Bucket

func (b Buckets) Get(key string) (core.Money, bool) {
	for _, bk := range b {
		if bk.Key == key {
			return bk.Total, true
		}
	}
	return core.Money{}, false
}

// Top returns the key with the largest total. Ties go to the key seen first.
func (b Buckets) Top() string {
	if len(b) == 0 {
		return NotAvailable
	}
	best := b[0]
	for _, bk := range b[1:] {
		if bk.Total.Cents > best.Total.Cents {
			best = bk
		}
	}
	return best.Key
}

func (b Buckets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, bk := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(bk.Key)
		if err != nil {
			return nil, err
		}
		v, err := bk.Total.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// bucketer accumulates totals per key in first-seen order.
type bucketer struct {
	index map[string]int
	out   Buckets
}

func newBucketer() *bucketer {
	return &bucketer{index: make(map[string]int), out: Buckets{}}
}

func (bt *bucketer) add(key string, m core.Money) {
	i, ok := bt.index[key]
	if !ok {
		i = len(bt.out)
		bt.index[key] = i
		bt.out = append(bt.out, Bucket{Key: key})
	}
	bt.out[i].Total = bt.out[i].Total.Add(m)
}
