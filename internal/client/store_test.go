package client

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkaya/campusgrid/internal/app/models"
)

func claimStore() *Store[models.StudentCourse] {
	return NewStore(func(sc models.StudentCourse) int64 { return sc.ID })
}

func TestStorePutGet(t *testing.T) {
	s := claimStore()
	s.Put(models.StudentCourse{ID: 1, CourseName: "Operating Systems"})

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Operating Systems", got.CourseName)

	_, ok = s.Get(2)
	assert.False(t, ok)
}

func TestStoreViews(t *testing.T) {
	s := claimStore()
	s.RegisterView("pending", func(sc models.StudentCourse) bool {
		return sc.CredentialStatus == models.CredentialPending
	})
	s.Put(
		models.StudentCourse{ID: 1, CredentialStatus: models.CredentialPending},
		models.StudentCourse{ID: 2, CredentialStatus: models.CredentialValidated},
		models.StudentCourse{ID: 3, CredentialStatus: models.CredentialPending},
	)

	pending := s.View("pending")
	assert.Len(t, pending, 2)

	// Views always reflect current contents.
	s.Put(models.StudentCourse{ID: 1, CredentialStatus: models.CredentialRejected})
	assert.Len(t, s.View("pending"), 1)

	assert.Nil(t, s.View("unknown"))
}

func TestStoreSnapshotRestore(t *testing.T) {
	s := claimStore()
	s.Put(models.StudentCourse{ID: 1, CredentialStatus: models.CredentialValidated})

	snap := s.Snapshot()

	s.Put(models.StudentCourse{ID: 1, CredentialStatus: models.CredentialPending})
	s.Put(models.StudentCourse{ID: 2})

	s.Restore(snap)

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, models.CredentialValidated, got.CredentialStatus)
	_, ok = s.Get(2)
	assert.False(t, ok)
}

func TestStoreGateSerializesSameRecord(t *testing.T) {
	s := claimStore()

	s.Begin(1)

	acquired := make(chan struct{})
	go func() {
		s.Begin(1)
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second mutation acquired the gate while the first was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	s.End(1)

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second mutation never acquired the gate")
	}
	s.End(1)
}

func TestStoreGateIndependentRecords(t *testing.T) {
	s := claimStore()

	s.Begin(1)
	defer s.End(1)

	done := make(chan struct{})
	go func() {
		s.Begin(2)
		s.End(2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("gate on one record blocked a different record")
	}
}

func TestStoreConcurrentPuts(t *testing.T) {
	s := claimStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Put(models.StudentCourse{ID: id})
		}(int64(i))
	}
	wg.Wait()

	assert.Len(t, s.Snapshot(), 50)
}
