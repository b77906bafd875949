package oid

import (
	"crypto/sha1"
	"encoding/binary"

	"github.com/google/uuid"
)

var generator Generator = &UniqueGenerator{}

// maxValue is the number of identifiers representable with Width digits.
var maxValue = pow(Base, Width)

/* Generator */

type Generator interface {
	New() OID
	NewFromBytes(b []byte) OID
}

/*
 * UniqueGenerator
 */

// UniqueGenerator is a production-grade Generator returning unique, random OIDs.
type UniqueGenerator struct{}

func NewUniqueGenerator() *UniqueGenerator {
	return &UniqueGenerator{}
}

// New generates an OID.
// Every call generates a new random OID.
func (g *UniqueGenerator) New() OID {
	u := uuid.New()
	return fromUint64(binary.BigEndian.Uint64(u[0:8]))
}

// NewFromBytes generates an OID based on bytes.
// The same bytes will generate the same OID.
func (g *UniqueGenerator) NewFromBytes(b []byte) OID {
	h := sha1.New()
	h.Write(b)
	bs := h.Sum(nil)
	return fromUint64(binary.BigEndian.Uint64(bs[0:8]))
}

func fromUint64(v uint64) OID {
	return OID(Encode(v%maxValue, Width))
}

/*
 * SuiteGenerator
 */

// SuiteGenerator returns a predefined suite of OIDs.
// This generator is useful for tests when OIDs are relevant for the test case.
type SuiteGenerator struct {
	nextOIDs []string
}

func NewSuiteGenerator(nextOIDs ...string) *SuiteGenerator {
	return &SuiteGenerator{nextOIDs: nextOIDs}
}

func (g *SuiteGenerator) New() OID {
	return g.nextOID()
}

func (g *SuiteGenerator) NewFromBytes(b []byte) OID {
	return g.nextOID()
}

func (g *SuiteGenerator) nextOID() OID {
	if len(g.nextOIDs) > 0 {
		oid, nextOIDs := g.nextOIDs[0], g.nextOIDs[1:]
		g.nextOIDs = nextOIDs
		return OID(oid)
	}
	panic("No more OIDs")
}

/*
 * FixedGenerator
 */

// FixedGenerator returns always the same OID.
type FixedGenerator struct {
	oid OID
}

func NewFixedGenerator(oid OID) *FixedGenerator {
	return &FixedGenerator{oid: oid}
}

func (g *FixedGenerator) New() OID {
	return g.oid
}

func (g *FixedGenerator) NewFromBytes(b []byte) OID {
	return g.oid
}

/*
 * SequenceGenerator
 */

// SequenceGenerator returns numbered OIDs in a predictable format (XXXXXXXXXW, XXXXXXXXXV, ...).
type SequenceGenerator struct {
	count uint64
}

func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{count: 0}
}

func (g *SequenceGenerator) New() OID {
	g.count++
	return OID(Encode(g.count, Width))
}

func (g *SequenceGenerator) NewFromBytes(b []byte) OID {
	return g.New()
}

func pow(base uint64, exp int) uint64 {
	result := uint64(1)
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
