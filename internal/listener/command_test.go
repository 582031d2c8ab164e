package listener

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/queueworks/qlisten/internal/shellarg"
)

func posixBuilder() *CommandBuilder {
	return NewCommandBuilder("/usr/local/bin/queue-worker", "work", "/srv/app").
		WithEscaper(shellarg.EscapePosix)
}

func TestBuild_WithoutEnvironment(t *testing.T) {
	spec := posixBuilder().Build("redis", "emails", Options{
		Memory:   128,
		Sleep:    3,
		MaxTries: 3,
	})

	assert.Equal(t, "/usr/local/bin/queue-worker", spec.Path)
	assert.Equal(t, []string{
		"work",
		"--once",
		"--queue='emails'",
		"--delay=0",
		"--memory=128",
		"--sleep=3",
		"--tries=3",
		"'redis'",
	}, spec.Args)
	assert.Equal(t, "/srv/app", spec.Dir)
	assert.Equal(t, time.Duration(0), spec.Timeout)
}

func TestBuild_WithEnvironment(t *testing.T) {
	spec := posixBuilder().Build("redis", "emails", Options{
		Environment: "staging",
		Memory:      128,
		Sleep:       3,
		MaxTries:    3,
		Timeout:     60,
	})

	// --env sits right after the subcommand, before --once.
	assert.Equal(t, "work", spec.Args[0])
	assert.Equal(t, "--env='staging'", spec.Args[1])
	assert.Equal(t, "--once", spec.Args[2])
	assert.Equal(t, 60*time.Second, spec.Timeout)
}

func TestBuild_EscapesHostileValues(t *testing.T) {
	spec := posixBuilder().Build("redis", "emails; rm -rf /", Options{Memory: 64})

	assert.Contains(t, spec.Args, "--queue='emails; rm -rf /'")
}

func TestBuild_EmptyQueueStaysOneArgument(t *testing.T) {
	spec := posixBuilder().Build("redis", "", Options{Memory: 64})

	assert.Contains(t, spec.Args, "--queue=''")
}

func TestBuild_WindowsEscaping(t *testing.T) {
	b := NewCommandBuilder(`C:\worker\queue-worker.exe`, "work", `C:\srv`).
		WithEscaper(shellarg.EscapeWindows)

	spec := b.Build("redis", "emails", Options{Memory: 128})

	assert.Contains(t, spec.Args, `--queue="emails"`)
	assert.Contains(t, spec.Args, `"redis"`)
}

func TestBuild_SpecIsStablePerInput(t *testing.T) {
	b := posixBuilder()
	opts := Options{Memory: 128, Sleep: 3, MaxTries: 3}

	first := b.Build("redis", "emails", opts)
	second := b.Build("redis", "emails", opts)

	assert.Equal(t, first, second)
}
