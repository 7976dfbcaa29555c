package utils

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// https://stackoverflow.com/a/31832326
const (
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
	letterBytes   = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var src = rand.NewSource(time.Now().UnixNano())

type RandomStringer interface {
	RandomString(n int) string
}

type realRandomStringProvider struct {
}

func NewRealRandomStringProvider() *realRandomStringProvider {
	return &realRandomStringProvider{}
}

// RandomString returns random alphanumeric string, fast but not crypto safe
func (r *realRandomStringProvider) RandomString(n int) string {
	sb := strings.Builder{}
	sb.Grow(n)
	// A src.Int63() generates 63 random bits, enough for letterIdxMax characters!
	for i, cache, remain := n-1, src.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = src.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			sb.WriteByte(letterBytes[idx])
			i--
		}
		cache >>= letterIdxBits
		remain--
	}

	return sb.String()
}

// FormatAvatarURL builds the discord CDN avatar URL for a member, or empty
// string when the member has no custom avatar.
func FormatAvatarURL(discordID, avatar string) string {
	if avatar == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", discordID, avatar)
}

func LogIfErr(ctx context.Context, err error) {
	if err != nil {
		LogCtx(ctx).Error(err)
	}
}
