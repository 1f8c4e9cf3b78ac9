// main.go - pccore: a command-line front end for the CFG-backed x86 core
//
// Grounded on cmd/ie32to64/main.go's flag-parse-then-act shape, generalized
// from a one-shot file converter to a long-running CPU driven through
// gopkg.in/urfave/cli.v2 (the teacher's own CLI library, per go.mod) so
// flags, subcommands, and help text come from the same stack the rest of
// the pack reaches for. The interactive breakpoint console is grounded on
// terminal_host.go's golang.org/x/term raw-mode session and
// debug_commands.go's short-letter command vocabulary (r/d/s/c/q here).
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	cli "gopkg.in/urfave/cli.v2"
	"golang.org/x/term"

	"github.com/retrodos/pccore/breakpoints"
	"github.com/retrodos/pccore/cfg"
	"github.com/retrodos/pccore/disasm"
	"github.com/retrodos/pccore/interrupt"
	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/pause"
	"github.com/retrodos/pccore/state"
)

func main() {
	app := &cli.App{
		Name:  "pccore",
		Usage: "run a flat real-mode x86 binary against the CFG-backed core",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "load", Aliases: []string{"l"}, Usage: "binary image to load", Required: true},
			&cli.UintFlag{Name: "load-addr", Value: 0x100, Usage: "linear address the image is loaded at"},
			&cli.UintFlag{Name: "entry-seg", Value: 0, Usage: "entry point CS"},
			&cli.UintFlag{Name: "entry-off", Value: 0x100, Usage: "entry point IP"},
			&cli.StringSliceFlag{Name: "break", Aliases: []string{"b"}, Usage: "hex linear address for an execution breakpoint"},
			&cli.BoolFlag{Name: "trace", Usage: "print every instruction before it executes"},
			&cli.BoolFlag{Name: "perf", Usage: "report MIPS while running"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "pccore:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	data, err := os.ReadFile(c.String("load"))
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.String("load"), err)
	}

	s := &state.State{}
	s.Reset()
	s.CS = uint16(c.Uint("entry-seg"))
	s.SetIP(uint16(c.Uint("entry-off")))

	bus := mem.NewFlatBus()
	bus.LoadAt(uint32(c.Uint("load-addr")), data)

	vectors := interrupt.NewVectorTable(bus)
	dos := interrupt.NewDOSHandler(os.Stdout)
	bpMgr := breakpoints.NewManager(s, bus)

	runner := cfg.NewRunner(s, bus, bus, vectors, dos, bpMgr, false, false)
	runner.PerfEnabled = c.Bool("perf")

	console := newConsole(runner, bpMgr)
	defer console.restore()
	bpMgr.OnHit = console.onBreakpoint

	// SMC eviction ordering (spec.md §5): the write breakpoint holder
	// runs, then the cache is evicted, then FlatBus.Write8 completes the
	// write — both already fire ahead of the write itself, which is
	// FlatBus.Write8's own contract for OnWrite.
	bus.OnWrite = func(addr uint32) {
		bpMgr.MonitorWrite(addr)
		runner.Feeder.Invalidate(addr)
	}
	bus.OnRead = bpMgr.MonitorRead

	for _, raw := range c.StringSlice("break") {
		addr, err := strconv.ParseUint(strings.TrimPrefix(raw, "0x"), 16, 32)
		if err != nil {
			return fmt.Errorf("bad --break address %q: %w", raw, err)
		}
		bpMgr.Toggle(breakpoints.Execution, breakpoints.NewAddressBreakPoint(uint32(addr), true), true)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT)
	pauser := pause.NewHandler()
	runner.Pause = pauser
	go func() {
		for range sigc {
			console.print("\n^C - pausing at next instruction boundary\n")
			<-pauser.RequestPause()
			console.repl()
		}
	}()

	console.trace = c.Bool("trace")

	if console.trace {
		for runner.State.IsRunning {
			pauser.WaitIfPaused()
			if !runner.State.IsRunning {
				break
			}
			console.printDisasm()
			if _, _, err := runner.Step(); err != nil {
				return err
			}
		}
	} else if err := runner.Run(); err != nil {
		return err
	}
	if dos.Terminated {
		os.Exit(int(dos.ExitCode))
	}
	return nil
}

// console drives the interactive breakpoint-hit REPL. Commands mirror
// debug_commands.go's single-letter vocabulary, trimmed to what a
// headless CFG-only core can usefully do without VGA/audio/GUI attached.
// Grounded on terminal_host.go's term.MakeRaw session: stdin is put in
// raw mode once up front (if it's a real terminal) so a command fires on
// a single keystroke instead of waiting on Enter, and restored on exit.
type console struct {
	runner   *cfg.Runner
	bpMgr    *breakpoints.Manager
	in       *bufio.Reader
	trace    bool
	fd       int
	oldState *term.State
}

func newConsole(r *cfg.Runner, bp *breakpoints.Manager) *console {
	c := &console{runner: r, bpMgr: bp, in: bufio.NewReader(os.Stdin), fd: int(os.Stdin.Fd())}
	if term.IsTerminal(c.fd) {
		if old, err := term.MakeRaw(c.fd); err == nil {
			c.oldState = old
		}
	}
	return c
}

// restore puts stdin back in cooked mode, if console ever changed it.
func (c *console) restore() {
	if c.oldState != nil {
		term.Restore(c.fd, c.oldState)
		c.oldState = nil
	}
}

func (c *console) print(format string, args ...interface{}) {
	fmt.Fprint(os.Stdout, strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", "\r\n"))
}

func (c *console) onBreakpoint(bp breakpoints.BreakPoint, addr uint32) {
	c.print("\nbreakpoint hit at 0x%X\n", addr)
	c.repl()
}

// repl reads single-keystroke commands until the user resumes (c) or
// quits (q). Raw mode means no line buffering or local echo, so each
// command fires the instant its key is pressed.
func (c *console) repl() {
	for {
		c.print("pccore> ")
		b, err := c.in.ReadByte()
		if err != nil {
			return
		}
		c.print("%c\n", b)
		switch string(b) {
		case "r":
			c.printRegisters()
		case "d":
			c.printDisasm()
		case "s":
			if _, _, err := c.runner.Step(); err != nil {
				c.print("step error: %v\n", err)
			}
			c.printDisasm()
		case "w":
			snap := state.Take(c.runner.State, c.runner.Bus, 1<<20)
			if err := state.SaveToFile(snap, "pccore.snap"); err != nil {
				c.print("save error: %v\n", err)
			} else {
				c.print("saved to pccore.snap\n")
			}
		case "L":
			snap, err := state.LoadFromFile("pccore.snap")
			if err != nil {
				c.print("load error: %v\n", err)
				break
			}
			state.Restore(snap, c.runner.State, c.runner.Bus)
			c.print("restored from pccore.snap\n")
		case "c":
			return
		case "q":
			c.restore()
			os.Exit(0)
		case "h", "?":
			c.print("commands: r (registers) d (disasm) s (step) w (save state) L (load state) c (continue) q (quit)\n")
		case "\r", "\n":
			// bare Enter: redraw the prompt
		default:
			c.print("unknown command %q\n", string(b))
		}
	}
}

func (c *console) printRegisters() {
	s := c.runner.State
	c.print("EAX=%08X EBX=%08X ECX=%08X EDX=%08X\n", s.EAX, s.EBX, s.ECX, s.EDX)
	c.print("ESI=%08X EDI=%08X EBP=%08X ESP=%08X\n", s.ESI, s.EDI, s.EBP, s.ESP)
	c.print("CS=%04X DS=%04X ES=%04X SS=%04X EIP=%08X FLAGS=%08X\n", s.CS, s.DS, s.ES, s.SS, s.EIP, s.Flags)
}

func (c *console) printDisasm() {
	node, err := c.runner.Feeder.Fetch(c.runner.State.CS_IP())
	if err != nil {
		c.print("disasm error: %v\n", err)
		return
	}
	c.print("%04X:%04X  %s\n", c.runner.State.CS, c.runner.State.IP(), disasm.Format(node.Instruction))
}
