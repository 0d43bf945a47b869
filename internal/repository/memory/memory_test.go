package memory

import (
	"testing"

	"tasks-be/internal/repository"
	"tasks-be/internal/repository/repotest"
)

func TestStore(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Store { return New() })
}
