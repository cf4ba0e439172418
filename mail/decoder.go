// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"fmt"

	"github.com/CrawX/go-mailbridge/domain"
)

type DecodeResult struct {
	Email *domain.Email
	Error error
}

type DecodeFunc func(raw *domain.RawImapMail) (*domain.Email, error)

// DecodeAll decodes mails with at most concurrency goroutines, results keep the order of mails.
func DecodeAll(mails []*domain.RawImapMail, concurrency int, decode DecodeFunc) []*DecodeResult {
	if concurrency < 1 {
		concurrency = 1
	}

	semaphore := make(chan bool, concurrency)
	results := make([]*DecodeResult, len(mails))
	for i := 0; i < len(mails); i++ {
		semaphore <- true
		go func(index int) {
			defer func() {
				if r := recover(); r != nil {
					results[index] = &DecodeResult{Error: fmt.Errorf("panic while decoding mail %d: %v", mails[index].Uid, r)}
				}
				<-semaphore
			}()

			email, err := decode(mails[index])
			results[index] = &DecodeResult{Email: email, Error: err}
		}(i)
	}

	for i := 0; i < concurrency; i++ {
		semaphore <- true
	}

	return results
}
