// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/CrawX/go-mailbridge/domain"

	"github.com/stretchr/testify/assert"
)

func Test_DecodeAllConcurrent(t *testing.T) {
	mails := []*domain.RawImapMail{{Uid: 1}, {Uid: 2}, {Uid: 3}}
	decodeErr := errors.New("broken mail")

	// All three decodes have to run at the same time to pass the barrier
	wg := &sync.WaitGroup{}
	wg.Add(3)
	decode := func(raw *domain.RawImapMail) (*domain.Email, error) {
		wg.Done()
		wg.Wait()
		switch raw.Uid {
		case 2:
			return nil, decodeErr
		case 3:
			panic("codec bug")
		}
		return &domain.Email{ID: strconv.Itoa(int(raw.Uid))}, nil
	}

	resultsChan := make(chan []*DecodeResult)
	go func() {
		resultsChan <- DecodeAll(mails, 3, decode)
	}()

	timeoutChan := time.After(time.Millisecond * 500)
	select {
	case results := <-resultsChan:
		assert.Len(t, results, 3)
		assert.Equal(t, "1", results[0].Email.ID)
		assert.NoError(t, results[0].Error)
		assert.Equal(t, decodeErr, results[1].Error)
		assert.Nil(t, results[2].Email)
		assert.EqualError(t, results[2].Error, "panic while decoding mail 3: codec bug")
	case <-timeoutChan:
		assert.Fail(t, "timeout when decoding mails concurrently")
	}
}

func Test_DecodeAllBounded(t *testing.T) {
	mails := make([]*domain.RawImapMail, 20)
	for i := range mails {
		mails[i] = &domain.RawImapMail{Uid: uint32(i + 1)}
	}

	mu := &sync.Mutex{}
	running, maxRunning := 0, 0
	decode := func(raw *domain.RawImapMail) (*domain.Email, error) {
		mu.Lock()
		running++
		if running > maxRunning {
			maxRunning = running
		}
		mu.Unlock()

		time.Sleep(time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
		return &domain.Email{ID: strconv.Itoa(int(raw.Uid))}, nil
	}

	results := DecodeAll(mails, 4, decode)
	assert.LessOrEqual(t, maxRunning, 4)
	for i, r := range results {
		assert.Equal(t, strconv.Itoa(i+1), r.Email.ID, "results keep input order")
	}

	assert.Empty(t, DecodeAll(nil, 0, decode))
}
