package web

import (
	"time"

	"github.com/labstack/echo/v4"
)

const flashKey = "flash.pending"

// Flash queues a notice. It is shown by the next rendered page, whether that
// is this response or the one after a redirect.
func (j *Jar) Flash(c echo.Context, msg string) {
	pending, _ := c.Get(flashKey).([]string)
	pending = append(pending, msg)
	c.Set(flashKey, pending)

	encoded, err := j.codec.Encode(FlashCookie, pending)
	if err != nil {
		c.Logger().Warnf("flash encode: %v", err)
		return
	}
	c.SetCookie(j.cookie(FlashCookie, encoded, flashMaxAge*time.Second))
}

// Notices drains queued notices: those carried over from the previous
// request plus any queued during this one. The flash cookie is cleared.
func (j *Jar) Notices(c echo.Context) []string {
	var carried []string
	if ck, err := c.Cookie(FlashCookie); err == nil {
		if err := j.codec.Decode(FlashCookie, ck.Value, &carried); err != nil {
			carried = nil
		}
	}
	pending, _ := c.Get(flashKey).([]string)
	c.Set(flashKey, nil)

	if len(carried) == 0 && len(pending) == 0 {
		return nil
	}
	c.SetCookie(j.expired(FlashCookie))
	return append(carried, pending...)
}
