/*
Ffc compiles a regular expression definition file and a grammar definition
file into a lexer/parser pair and runs it over a source file, printing the
recognized token list and the accept/reject verdict.

Usage:

	ffc [flags]

The flags are:

	-v, --version
		Give the current version of frontendforge and then exit.

	-r, --regex FILE
		The regex definition file to compile. Defaults to "regex.def".

	-g, --grammar FILE
		The grammar definition file to compile. Defaults to "grammar.def".

	-s, --source FILE
		The source file to tokenize and parse. Defaults to "input.txt".

	-a, --allow-ambiguous
		Tolerate shift/reduce conflicts by preferring shift instead of
		failing compilation.

	-t, --trace
		Print every shift/reduce/accept step as the parser runs.

	--repl
		Start an interactive read-eval-print loop instead of reading a
		source file: each line is tokenized and parsed against the
		compiled frontend as it is entered.
*/
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/corvidlab/frontendforge/internal/fferrors"
	"github.com/corvidlab/frontendforge/internal/frontend"
	"github.com/corvidlab/frontendforge/internal/parse"
	"github.com/corvidlab/frontendforge/internal/symtab"
	"github.com/corvidlab/frontendforge/internal/version"
	"github.com/chzyer/readline"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitCompileError
	ExitRejected
)

var (
	returnCode      = ExitSuccess
	flagVersion     = pflag.BoolP("version", "v", false, "Gives the version info")
	regexFile       = pflag.StringP("regex", "r", "regex.def", "The regex definition file to compile")
	grammarFile     = pflag.StringP("grammar", "g", "grammar.def", "The grammar definition file to compile")
	sourceFile      = pflag.StringP("source", "s", "input.txt", "The source file to tokenize and parse")
	allowAmbiguous  = pflag.BoolP("allow-ambiguous", "a", false, "Tolerate shift/reduce conflicts by preferring shift")
	trace           = pflag.BoolP("trace", "t", false, "Print every shift/reduce/accept step")
	repl            = pflag.Bool("repl", false, "Start an interactive read-eval-print loop")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	regexSrc, err := os.ReadFile(*regexFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read regex file: %v\n", err)
		returnCode = ExitCompileError
		return
	}
	grammarSrc, err := os.ReadFile(*grammarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read grammar file: %v\n", err)
		returnCode = ExitCompileError
		return
	}

	fe := frontend.New(string(regexSrc), string(grammarSrc), frontend.Options{AllowAmbiguousGrammar: *allowAmbiguous})

	result, err := fe.Compile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile error: %v\n", err)
		returnCode = ExitCompileError
		return
	}
	fmt.Printf("compiled lexical DFA with %s states\n", humanize.Comma(int64(result.DFA.NumStates)))
	if len(result.AmbiguityWarnings) > 0 {
		fmt.Printf("tolerated %d grammar ambiguities:\n", len(result.AmbiguityWarnings))
		for _, c := range result.AmbiguityWarnings {
			fmt.Printf("  %s\n", c)
		}
	}

	if *repl {
		runREPL(fe)
		return
	}

	source, err := os.ReadFile(*sourceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read source file: %v\n", err)
		returnCode = ExitCompileError
		return
	}

	if !runOnce(fe, string(source)) {
		returnCode = ExitRejected
	}
}

func runOnce(fe *frontend.Frontend, text string) bool {
	var opts []parse.DriverOption
	if *trace {
		opts = append(opts, parse.WithTraceListener(func(ev parse.TraceEvent) {
			fmt.Printf("%s: %s\n", ev.Kind, ev.Detail)
		}))
	}
	symbols := symtab.New()
	opts = append(opts, parse.WithSymbolTable(symbols))

	tokens, err := fe.Tokenize(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return false
	}

	result, err := fe.Parse(tokens, opts...)
	accepted := err == nil && result.Accepted

	if err != nil {
		if errors.Is(err, fferrors.ErrLexical) {
			fmt.Println("Sentence Rejected! (lexical error)")
		} else {
			fmt.Println("Sentence Rejected!")
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
	} else if result.Accepted {
		fmt.Println("Sentence Accepted!")
	} else {
		fmt.Println("Sentence Rejected!")
	}

	fmt.Print(symbols.String())
	return accepted
}

func runREPL(fe *frontend.Frontend) {
	rl, err := readline.New("ffc> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot start readline: %v\n", err)
		returnCode = ExitCompileError
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		if line == "" {
			continue
		}
		runOnce(fe, line)
	}
}
