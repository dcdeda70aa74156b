// Package gen renders a compiled program as Go source: a function that
// replays the program's construction through the nfa builder API, so the
// rebuilt program is instruction-for-instruction identical to the one
// compiled at generation time.
package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/coregx/miniregex/nfa"
)

const nfaPath = "github.com/coregx/miniregex/nfa"

// File builds the generated source file for prog. name is the exported
// base name; the emitted function is <name>Program.
func File(prog *nfa.Program, pattern, pkg, name string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by minirexgen. DO NOT EDIT.")
	f.HeaderComment(fmt.Sprintf("pattern: %s", pattern))

	stmts := []jen.Code{
		jen.Id("p").Op(":=").Qual(nfaPath, "NewProgram").Call(),
	}
	for id := 0; id < prog.Len(); id++ {
		stmts = append(stmts, instruction(prog.Inst(id)))
	}
	stmts = append(stmts,
		jen.Id("p").Dot("SetStartID").Call(jen.Lit(prog.StartID())),
		jen.Return(jen.Id("p")),
	)

	f.Comment(fmt.Sprintf("%sProgram returns the compiled program for the pattern %q.", name, pattern))
	f.Func().Id(name + "Program").Params().Op("*").Qual(nfaPath, "Program").Block(stmts...)
	return f
}

// instruction emits the builder call appending one instruction.
func instruction(insn *nfa.Instruction) jen.Code {
	p := jen.Id("p")
	switch insn.Op() {
	case nfa.OpMatchCharCategory:
		return p.Dot("AppendMatchCharCategory").Call(charCategory(insn.CharCategory()), jen.Lit(insn.Next()))
	case nfa.OpGoto:
		return p.Dot("AppendGoto").Call(jen.Lit(insn.Next()))
	case nfa.OpFork:
		return p.Dot("AppendFork").Call(jen.Lit(insn.Next()), jen.Lit(insn.Next2()))
	case nfa.OpAccept:
		return p.Dot("AppendAccept").Call()
	case nfa.OpAdvance:
		return p.Dot("AppendAdvance").Call(jen.Lit(insn.Next()))
	case nfa.OpMarkGroupStart:
		return p.Dot("AppendMarkGroupStart").Call(jen.Lit(insn.Next()), jen.Lit(insn.Group()))
	case nfa.OpMarkGroupEnd:
		return p.Dot("AppendMarkGroupEnd").Call(jen.Lit(insn.Next()), jen.Lit(insn.Group()))
	default:
		panic(fmt.Sprintf("gen: unknown opcode %d", insn.Op()))
	}
}

// charCategory emits the constructor expression for a category.
func charCategory(cc nfa.CharCategory) jen.Code {
	switch cc.Kind() {
	case nfa.CategoryOrdinary:
		return jen.Qual(nfaPath, "OrdinaryChar").Call(jen.Lit(int(cc.Ch())))
	case nfa.CategoryAny:
		return jen.Qual(nfaPath, "AnyChar").Call()
	default:
		panic("gen: empty char category in validated program")
	}
}
