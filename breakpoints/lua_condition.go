// lua_condition.go - arbitrary-expression breakpoint conditions
//
// spec.md §4.5 requires the condition compiler to accept "registers, memory
// dereferences, arithmetic, comparisons, logical ops" — more than the
// teacher's single-comparison grammar covers. This layer compiles the
// condition's source ("ax == 0x100 && [bx] != 0") once to a
// *lua.FunctionProto via lua.Parse/lua.Compile, then re-runs that same
// proto against a fresh register/memory snapshot on every evaluation, so a
// hot breakpoint pays parse cost exactly once.
package breakpoints

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

type luaCondition struct {
	proto *lua.FunctionProto
}

// compileLua accepts C-style operators (==, !=, &&, ||) and [addr] memory
// dereferences in the condition source, translating both to Lua's own
// spelling before parsing, so breakpoint authors don't need to learn Lua.
func compileLua(source string) (*luaCondition, error) {
	script := "return (" + translateToLua(source) + ")"
	stmts, err := parse.Parse(strings.NewReader(script), "<condition>")
	if err != nil {
		return nil, err
	}
	proto, err := lua.Compile(stmts, "<condition>")
	if err != nil {
		return nil, err
	}
	return &luaCondition{proto: proto}, nil
}

func translateToLua(source string) string {
	replacer := strings.NewReplacer(
		"!=", "~=",
		"&&", " and ",
		"||", " or ",
		"[", "peek(",
		"]", ")",
	)
	return replacer.Replace(source)
}

func (c *luaCondition) eval(env Env) bool {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	for _, name := range registerNames {
		if v, ok := registerValue(env.State, name); ok {
			L.SetGlobal(name, lua.LNumber(v))
		}
	}
	L.SetGlobal("hitcount", lua.LNumber(env.HitCount))
	L.SetGlobal("peek", L.NewFunction(func(l *lua.LState) int {
		addr := uint32(l.CheckNumber(1))
		l.Push(lua.LNumber(env.Bus.SneakyRead8(addr)))
		return 1
	}))

	fn := L.NewFunctionFromProto(c.proto)
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return false
	}
	ret := L.Get(-1)
	L.Pop(1)
	switch v := ret.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return v != 0
	}
	return false
}

var registerNames = []string{
	"al", "ah", "ax", "eax",
	"bx", "ebx", "cx", "ecx", "dx", "edx",
	"si", "di", "bp", "sp", "ip",
	"cs", "ds", "es", "ss", "flags",
}
