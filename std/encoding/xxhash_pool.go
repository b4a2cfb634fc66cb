package encoding

import (
	"bytes"
	"sync"

	"github.com/cespare/xxhash"
)

// xxHashScratch is the reusable scratch state Component.Hash and Name.Hash
// encode into: a growable byte buffer plus the running xxhash digest, kept
// together so a single pool checkout covers both the encode and the hash.
type xxHashScratch struct {
	buffer bytes.Buffer
	hash   *xxhash.Digest
}

// xxHashScratchPool hands out reset xxHashScratch values so name/component
// hashing (on the NameTree's hot path) doesn't allocate a digest per call.
type xxHashScratchPool struct {
	pool sync.Pool
}

func (p *xxHashScratchPool) Get() *xxHashScratch {
	if v := p.pool.Get(); v != nil {
		s := v.(*xxHashScratch)
		s.buffer.Reset()
		s.hash.Reset()
		return s
	}
	return &xxHashScratch{hash: xxhash.New()}
}

func (p *xxHashScratchPool) Put(s *xxHashScratch) {
	p.pool.Put(s)
}

var xxHashPool = &xxHashScratchPool{}
