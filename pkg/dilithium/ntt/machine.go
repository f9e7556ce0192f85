package ntt

import (
	"errors"

	"pqcrystals/pkg/dilithium/field"
)

// The step machine schedules one butterfly memory transaction per cycle on
// a dual-port coefficient RAM, with reads landing one cycle after issue.
// It implements the same contract as NTT and InvNTT so an accelerated
// backend can be validated against the software transform.

// Phase is the machine's control state.
type Phase uint8

const (
	Idle Phase = iota
	Read
	Write
	FinalRead  // inverse only: scaling pass, read
	FinalWrite // inverse only: scaling pass, write
	Done
)

// MemReq is the memory transaction the machine issues for the current
// cycle. Load and Store are mutually exclusive; a Load's data arrives on
// the next Step call.
type MemReq struct {
	Load  bool
	Store bool
	AddrA int
	AddrB int
	DataA int32
	DataB int32
}

// ErrCycleCeiling reports a machine that failed to finish within its cycle
// budget. It indicates a scheduling bug, not a data-dependent condition.
var ErrCycleCeiling = errors.New("ntt: machine exceeded cycle ceiling")

// Machine steps through one forward or inverse transform.
type Machine struct {
	inverse bool
	phase   Phase

	length int
	start  int
	j      int
	k      int
}

// NewMachine returns a machine in Idle; the first Step starts the transform.
func NewMachine(inverse bool) *Machine {
	m := &Machine{inverse: inverse}
	if inverse {
		m.length = 1
		m.k = field.N - 1
	} else {
		m.length = 128
		m.k = 1
	}
	return m
}

// Phase reports the machine's current control state.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Step advances the machine by one cycle. dataA and dataB carry the values
// for the Load issued on the previous cycle; they are ignored otherwise.
func (m *Machine) Step(dataA, dataB int32) MemReq {
	switch m.phase {
	case Idle, Read:
		m.phase = Write
		return MemReq{Load: true, AddrA: m.j, AddrB: m.j + m.length}

	case Write:
		req := MemReq{Store: true, AddrA: m.j, AddrB: m.j + m.length}
		if m.inverse {
			req.DataA = dataA + dataB
			req.DataB = field.Mul(-Zetas[m.k], dataA-dataB)
		} else {
			t := field.Mul(Zetas[m.k], dataB)
			req.DataA = dataA + t
			req.DataB = dataA - t
		}
		m.advance()
		return req

	case FinalRead:
		m.phase = FinalWrite
		return MemReq{Load: true, AddrA: m.j, AddrB: m.j + 1}

	case FinalWrite:
		const f = 41978
		req := MemReq{
			Store: true,
			AddrA: m.j, AddrB: m.j + 1,
			DataA: field.Mul(dataA, f),
			DataB: field.Mul(dataB, f),
		}
		m.j += 2
		if m.j >= field.N {
			m.phase = Done
		} else {
			m.phase = FinalRead
		}
		return req
	}
	return MemReq{}
}

func (m *Machine) advance() {
	m.phase = Read
	m.j++
	if m.j < m.start+m.length {
		return
	}
	m.start += 2 * m.length
	m.j = m.start
	if m.inverse {
		m.k--
	} else {
		m.k++
	}
	if m.start < field.N {
		return
	}
	m.start = 0
	m.j = 0
	if m.inverse {
		m.length <<= 1
		if m.length >= field.N {
			m.phase = FinalRead
		}
	} else {
		m.length >>= 1
		if m.length < 1 {
			m.phase = Done
		}
	}
}

// Run drives the machine against p until Done, emulating the one-cycle
// read latency of the coefficient RAM.
func Run(m *Machine, p *[field.N]int32) error {
	// 8 stages of 128 butterflies at 2 cycles each, plus the inverse
	// scaling pass, fits comfortably.
	const maxCycles = 8192

	var dataA, dataB int32
	for cycle := 0; cycle < maxCycles; cycle++ {
		req := m.Step(dataA, dataB)
		if req.Load {
			dataA, dataB = p[req.AddrA], p[req.AddrB]
		}
		if req.Store {
			p[req.AddrA] = req.DataA
			p[req.AddrB] = req.DataB
		}
		if m.phase == Done {
			return nil
		}
	}
	return ErrCycleCeiling
}
