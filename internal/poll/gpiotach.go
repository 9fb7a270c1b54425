// SPDX-License-Identifier: BSD-3-Clause

package poll

import (
	"context"
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOTachReader counts falling edges with go-gpiocdev line-event watches,
// the same library u-bmc's pkg/gpio wraps for its own line monitoring.
type GPIOTachReader struct {
	chip string
}

// NewGPIOTachReader builds a reader against the named gpiochip device.
func NewGPIOTachReader(chip string) *GPIOTachReader {
	return &GPIOTachReader{chip: chip}
}

// CountEdges requests line as a pulled-up input watching falling edges,
// counts them until maxEdges is reached or edgeWait elapses without one.
func (g *GPIOTachReader) CountEdges(ctx context.Context, line int, maxEdges int, edgeWait time.Duration) (int, time.Duration, error) {
	events := make(chan struct{}, maxEdges)

	l, err := gpiocdev.RequestLine(g.chip, line,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			select {
			case events <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: request line %d on %s: %w", ErrReadFailed, line, g.chip, err)
	}
	defer l.Close()

	start := time.Now()
	count := 0
	for count < maxEdges {
		select {
		case <-events:
			count++
		case <-time.After(edgeWait):
			return count, time.Since(start), nil
		case <-ctx.Done():
			return count, time.Since(start), ctx.Err()
		}
	}
	return count, time.Since(start), nil
}
