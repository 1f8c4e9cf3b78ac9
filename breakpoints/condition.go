// condition.go - breakpoint condition predicates
//
// Evolution of the teacher's debug_conditions.go single-comparison parser.
// ParseCondition still recognizes the teacher's three forms (register
// compare, memory-dereference compare, hitcount compare) as a fast path
// that needs no Lua state at all; anything richer — arithmetic, logical
// && / ||, nested dereferences — falls back to compileLua (lua_condition.go),
// which precompiles the source once to a *lua.FunctionProto so repeated
// evaluation at a hot breakpoint doesn't reparse the expression.
package breakpoints

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/state"
)

type ConditionOp int

const (
	CondOpEqual ConditionOp = iota
	CondOpNotEqual
	CondOpLess
	CondOpGreater
	CondOpLessEqual
	CondOpGreaterEqual
)

type conditionSource int

const (
	srcRegister conditionSource = iota
	srcMemory
	srcHitCount
)

// Condition is a compiled predicate. Eval never touches the read-breakpoint
// holder: the Manager always hands it bus.SneakyRead8 through env, never
// the monitored Read8, per spec.md §4.5's bypass requirement.
type Condition struct {
	fast *fastCondition
	lua  *luaCondition
}

type fastCondition struct {
	source  conditionSource
	regName string
	memAddr uint32
	op      ConditionOp
	value   uint64
}

// Env bundles what a condition predicate may read: the register file, a
// bypass-only memory reader, and the breakpoint's own hit counter.
type Env struct {
	State    *state.State
	Bus      mem.Bus
	HitCount uint64
}

// ParseCondition compiles condition source text into a Condition. It tries
// the teacher's single-comparison grammar first; anything that doesn't
// match falls through to the Lua expression compiler.
func ParseCondition(text string) (*Condition, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty condition")
	}
	if fc, ok := parseFastCondition(text); ok {
		return &Condition{fast: fc}, nil
	}
	lc, err := compileLua(text)
	if err != nil {
		return nil, err
	}
	return &Condition{lua: lc}, nil
}

func (c *Condition) Eval(addr uint32, env Env) bool {
	if c == nil {
		return true
	}
	if c.fast != nil {
		return c.fast.eval(env)
	}
	return c.lua.eval(env)
}

func parseFastCondition(text string) (*fastCondition, bool) {
	var op ConditionOp
	var opStr string
	var opIdx int

	for _, candidate := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		idx := strings.Index(text, candidate)
		if idx >= 0 {
			opStr, opIdx = candidate, idx
			break
		}
	}
	if opStr == "" {
		return nil, false
	}
	switch opStr {
	case "==":
		op = CondOpEqual
	case "!=":
		op = CondOpNotEqual
	case "<":
		op = CondOpLess
	case ">":
		op = CondOpGreater
	case "<=":
		op = CondOpLessEqual
	case ">=":
		op = CondOpGreaterEqual
	}

	lhs := strings.TrimSpace(text[:opIdx])
	rhs := strings.TrimSpace(text[opIdx+len(opStr):])

	value, ok := parseNumber(rhs)
	if !ok {
		return nil, false
	}

	if strings.HasPrefix(lhs, "[") && strings.HasSuffix(lhs, "]") {
		addr, ok := parseNumber(lhs[1 : len(lhs)-1])
		if !ok {
			return nil, false
		}
		return &fastCondition{source: srcMemory, memAddr: uint32(addr), op: op, value: value}, true
	}
	if strings.EqualFold(lhs, "hitcount") {
		return &fastCondition{source: srcHitCount, op: op, value: value}, true
	}
	if !isBareIdentifier(lhs) {
		return nil, false
	}
	return &fastCondition{source: srcRegister, regName: strings.ToLower(lhs), op: op, value: value}, true
}

func isBareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
			return false
		}
	}
	return true
}

func parseNumber(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		return v, err == nil
	}
	if strings.HasPrefix(s, "$") {
		v, err := strconv.ParseUint(s[1:], 16, 64)
		return v, err == nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	return v, err == nil
}

func (f *fastCondition) eval(env Env) bool {
	var actual uint64
	switch f.source {
	case srcRegister:
		v, ok := registerValue(env.State, f.regName)
		if !ok {
			return false
		}
		actual = v
	case srcMemory:
		actual = uint64(env.Bus.SneakyRead8(f.memAddr))
	case srcHitCount:
		actual = env.HitCount
	}
	return compareValues(actual, f.op, f.value)
}

func compareValues(actual uint64, op ConditionOp, expected uint64) bool {
	switch op {
	case CondOpEqual:
		return actual == expected
	case CondOpNotEqual:
		return actual != expected
	case CondOpLess:
		return actual < expected
	case CondOpGreater:
		return actual > expected
	case CondOpLessEqual:
		return actual <= expected
	case CondOpGreaterEqual:
		return actual >= expected
	}
	return false
}

// registerValue resolves the handful of register names spec.md §8's test
// vectors reference (ax, al, ah, bx, cx, dx, si, di, bp, sp, ip, eax...).
func registerValue(s *state.State, name string) (uint64, bool) {
	switch name {
	case "al":
		return uint64(s.AL()), true
	case "ah":
		return uint64(s.AH()), true
	case "ax":
		return uint64(s.AX()), true
	case "eax":
		return uint64(s.EAX), true
	case "bx":
		return uint64(s.BX()), true
	case "ebx":
		return uint64(s.EBX), true
	case "cx":
		return uint64(s.CX()), true
	case "ecx":
		return uint64(s.ECX), true
	case "dx":
		return uint64(s.DX()), true
	case "edx":
		return uint64(s.EDX), true
	case "si":
		return uint64(s.SI()), true
	case "di":
		return uint64(s.DI()), true
	case "bp":
		return uint64(s.BP()), true
	case "sp":
		return uint64(s.SP()), true
	case "ip":
		return uint64(s.IP()), true
	case "cs":
		return uint64(s.CS), true
	case "ds":
		return uint64(s.DS), true
	case "es":
		return uint64(s.ES), true
	case "ss":
		return uint64(s.SS), true
	case "flags":
		return uint64(s.Flags), true
	}
	return 0, false
}
