package attendance

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

func TestScanBookDeduplicatesPerStudent(t *testing.T) {
	book := NewScanBook()
	key := SessionKey{Subject: "DBMS", Date: "2024-02-01", ClassType: "Lecture"}

	assert.True(t, book.Record(key, models.ScanEvent{StudentID: 42}))
	assert.False(t, book.Record(key, models.ScanEvent{StudentID: 42}))
	assert.True(t, book.Record(key, models.ScanEvent{StudentID: 43}))
	assert.Len(t, book.Pending(key), 2)
}

func TestScanBookSessionsAreIndependent(t *testing.T) {
	book := NewScanBook()
	lecture := SessionKey{Subject: "DBMS", Date: "2024-02-01", ClassType: "Lecture"}
	lab := SessionKey{Subject: "DBMS", Date: "2024-02-01", ClassType: "Lab"}

	book.Record(lecture, models.ScanEvent{StudentID: 42})
	assert.True(t, book.Record(lab, models.ScanEvent{StudentID: 42}), "same student may scan into a different session")

	book.Clear(lecture)
	assert.Empty(t, book.Pending(lecture))
	assert.Len(t, book.Pending(lab), 1)
}

func TestScanBookConcurrentRecords(t *testing.T) {
	book := NewScanBook()
	key := SessionKey{Subject: "OS", Date: "2024-02-01", ClassType: "Lecture"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			book.Record(key, models.ScanEvent{StudentID: id})
		}(int64(i % 10))
	}
	wg.Wait()
	assert.Len(t, book.Pending(key), 10)
}
