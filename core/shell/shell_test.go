package shell

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/minish-sh/minish/commands"
	"github.com/minish-sh/minish/core/logger"
	"github.com/minish-sh/minish/core/pipeline"
	"github.com/minish-sh/minish/core/proc"
)

// inlineRunner delegates every stage to the exec runner's synchronous path,
// so pipeline tests run builtins in-process instead of re-executing the
// test binary. Small stage outputs fit the kernel pipe buffer, which makes
// the synchronous Start safe.
type inlineRunner struct {
	exec *execRunner
}

func (r *inlineRunner) Run(argv []string, stdin io.Reader, stdout, stderr io.Writer) proc.Result {
	return r.exec.Run(argv, stdin, stdout, stderr)
}

func (r *inlineRunner) Start(argv []string, stdin io.Reader, stdout, stderr *os.File) (pipeline.Handle, error) {
	res := r.exec.Run(argv, stdin, stdout, stderr)
	return pipeline.Exited(res.ExitCode), nil
}

func testShell(env ...string) *Shell {
	sh := New(Options{
		Env:     append([]string{}, env...),
		Dir:     "/",
		FS:      afero.NewMemMapFs(),
		Resolve: commands.Resolve,
		Stdin:   strings.NewReader(""),
	})
	sh.engine = pipeline.New(&inlineRunner{&execRunner{shell: sh}})
	return sh
}

func run(t *testing.T, sh *Shell, line string) (proc.Result, string, string) {
	t.Helper()

	var out, errOut bytes.Buffer
	res := sh.ExecuteLine(line, &out, &errOut)
	return res, out.String(), errOut.String()
}

func TestExecuteLine_echo(t *testing.T) {
	res, out, _ := run(t, testShell(), "echo hello    world")

	assert.Equal(t, proc.Result{}, res)
	assert.Equal(t, "hello world\n", out)
}

func TestExecuteLine_expansion(t *testing.T) {
	cases := []struct {
		name string
		line string
		want string
	}{
		{"simple", `echo $X`, "hello\n"},
		{"single-quotes-suppress", `echo '$X'`, "$X\n"},
		{"double-quotes-expand", `echo "$GREETING"`, "hello world\n"},
		{"missing-is-empty", `echo $UNKNOWN`, "\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sh := testShell("X=hello", "GREETING=hello world")

			res, out, _ := run(t, sh, tc.line)

			assert.Equal(t, 0, res.ExitCode)
			assert.False(t, res.ShouldExit)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestExecuteLine_assignments(t *testing.T) {
	sh := testShell("X=hello")

	res, out, errOut := run(t, sh, "K=V")
	assert.Equal(t, proc.Result{}, res)
	assert.Empty(t, out)
	assert.Empty(t, errOut)
	assert.Equal(t, "V", sh.Env.Getenv("K"))

	// Assignments expand like any other word.
	run(t, sh, "GREETING=$X")
	assert.Equal(t, "hello", sh.Env.Getenv("GREETING"))

	// Several assignments on one line all apply.
	run(t, sh, "A=1 B=2")
	assert.Equal(t, "1", sh.Env.Getenv("A"))
	assert.Equal(t, "2", sh.Env.Getenv("B"))
}

func TestExecuteLine_notJustAssignmentsRuns(t *testing.T) {
	sh := testShell()

	// A command after assignments means the line is not an assignment line.
	res, _, errOut := run(t, sh, "K=V missing_program")

	assert.Equal(t, pipeline.ExitUnknown, res.ExitCode)
	assert.NotEmpty(t, errOut)
	assert.Empty(t, sh.Env.Getenv("K"))
}

func TestExecuteLine_syntaxErrors(t *testing.T) {
	cases := map[string]string{
		"leading-pipe":       "| echo",
		"double-pipe":        "echo 1 || wc",
		"trailing-pipe":      "echo 1 |",
		"unterminated-quote": `echo "unfinished`,
	}

	for tn, line := range cases {
		t.Run(tn, func(t *testing.T) {
			res, _, errOut := run(t, testShell(), line)

			assert.Equal(t, ExitSyntaxError, res.ExitCode)
			assert.False(t, res.ShouldExit)
			assert.NotEmpty(t, errOut)
		})
	}
}

func TestExecuteLine_exit(t *testing.T) {
	res, _, _ := run(t, testShell(), "exit")
	assert.Equal(t, proc.Result{ExitCode: 0, ShouldExit: true}, res)

	res, _, _ = run(t, testShell(), "exit 42")
	assert.Equal(t, proc.Result{ExitCode: 42, ShouldExit: true}, res)
}

func TestExecuteLine_commandNotFound(t *testing.T) {
	res, out, errOut := run(t, testShell(), "this_command_should_not_exist_12345")

	assert.Equal(t, pipeline.ExitUnknown, res.ExitCode)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "command not found")
}

func TestExecuteLine_pwd(t *testing.T) {
	_, out, _ := run(t, testShell(), "pwd")
	assert.Equal(t, "/\n", out)
}

func TestExecuteLine_emptyLines(t *testing.T) {
	res, out, errOut := run(t, testShell(), "")
	assert.Equal(t, proc.Result{}, res)

	res, _, _ = run(t, testShell(), "   \t  ")
	assert.Equal(t, proc.Result{}, res)
	assert.Empty(t, out)
	assert.Empty(t, errOut)
}

func TestExecuteLine_pipelineEchoWc(t *testing.T) {
	res, out, _ := run(t, testShell(), "echo 123 | wc")

	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.ShouldExit)
	assert.Equal(t, "1 1 4\n", out)
}

func TestExecuteLine_pipelineThreeStages(t *testing.T) {
	res, out, _ := run(t, testShell(), "echo hello | cat | wc")

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "1 1 6\n", out)
}

func TestExecuteLine_pipelineOnlyLastStageOutput(t *testing.T) {
	// echo ignores its stdin, so the first stage's output must vanish.
	_, out, _ := run(t, testShell(), "echo first | echo second")

	assert.Equal(t, "second\n", out)
}

func TestExecuteLine_exitInsidePipelineDoesNotTerminate(t *testing.T) {
	res, _, _ := run(t, testShell(), "echo 1 | exit")

	assert.False(t, res.ShouldExit)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecuteLine_pipelineLastCodeWins(t *testing.T) {
	sh := testShell()

	res, out, errOut := run(t, sh, "cat missing.txt | echo ok")

	assert.Equal(t, 0, res.ExitCode, "only the last stage's code is visible")
	assert.Equal(t, "ok\n", out)
	assert.Contains(t, errOut, "cat:")
}

func TestExecuteLine_pipelineFileThrough(t *testing.T) {
	sh := testShell()
	assert.NoError(t, afero.WriteFile(sh.FS, "/data.txt", []byte("line1\nline2 word\n"), 0644))

	res, out, _ := run(t, sh, "cat /data.txt | wc")

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "2 3 17\n", out)
}

func TestExecuteLine_recordsLog(t *testing.T) {
	var logBuf bytes.Buffer

	sh := testShell()
	sh.log = logger.NewJSONLines(&logBuf)
	sh.engine = pipeline.New(&inlineRunner{&execRunner{shell: sh}})

	run(t, sh, "echo hi")

	assert.Contains(t, logBuf.String(), `"line":"echo hi"`)
	assert.Contains(t, logBuf.String(), `"exit_code":0`)
}

func TestExecuteLine_recordsAssignments(t *testing.T) {
	var logBuf bytes.Buffer

	sh := testShell()
	sh.log = logger.NewJSONLines(&logBuf)

	run(t, sh, "K=V")

	assert.Contains(t, logBuf.String(), `"line":"K=V"`)
}
