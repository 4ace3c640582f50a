package limiter

import (
	"fmt"
	"strings"
	"time"
)

// Tier groups paths by how strictly they are limited.
type Tier int

const (
	TierRegular Tier = iota
	TierThirdParty
	TierSensitive
)

func (t Tier) String() string {
	switch t {
	case TierSensitive:
		return "sensitive"
	case TierThirdParty:
		return "third_party"
	default:
		return "regular"
	}
}

// SensitivePrefixes are auth endpoints open to credential abuse.
var SensitivePrefixes = []string{
	"/api/v1/auth/login",
	"/api/v1/auth/signup",
	"/api/v1/auth/register",
	"/api/v1/auth/forgot-password",
	"/api/v1/auth/reset-password",
	"/api/v1/auth/otp",
	"/api/v1/auth/verify",
}

// ThirdPartyPrefixes are endpoints that spend external API quota.
var ThirdPartyPrefixes = []string{
	"/api/v1/geocode",
	"/api/v1/recipes/search",
	"/api/v1/recipes/nutrition",
	"/api/v1/nutrition",
	"/api/v1/ingredients/search",
	"/api/v1/foods",
}

// IdentityKind tells whether a request is counted per user or per IP.
type IdentityKind string

const (
	IdentityUser IdentityKind = "user"
	IdentityIP   IdentityKind = "ip"
)

// Identity is the subject a request is counted against.
type Identity struct {
	Kind  IdentityKind
	Value string
}

func UserIdentity(id string) Identity { return Identity{Kind: IdentityUser, Value: id} }
func IPIdentity(ip string) Identity   { return Identity{Kind: IdentityIP, Value: ip} }

func (i Identity) Authenticated() bool { return i.Kind == IdentityUser }

func (i Identity) String() string { return string(i.Kind) + ":" + i.Value }

// Quota is the metadata surfaced in X-RateLimit-* headers.
type Quota struct {
	Limit      int
	Remaining  int
	Reset      int64 // epoch seconds of the next window boundary
	RetryAfter int64 // seconds until that boundary, 1..60
}

// Policy maps requests to ceilings and counter keys. It is immutable after construction.
type Policy struct {
	cfg Config
}

func NewPolicy(cfg Config) *Policy {
	cfg.ApplyDefaults()
	return &Policy{cfg: cfg}
}

// Classify returns the first matching tier: sensitive, then third-party, then regular.
func (p *Policy) Classify(path string) Tier {
	if hasAnyPrefix(path, SensitivePrefixes) {
		return TierSensitive
	}
	if hasAnyPrefix(path, ThirdPartyPrefixes) {
		return TierThirdParty
	}
	return TierRegular
}

// Limit returns the per-minute ceiling for path. Sensitive paths ignore authentication.
func (p *Policy) Limit(path string, authenticated bool) int {
	switch p.Classify(path) {
	case TierSensitive:
		return p.cfg.SensitivePerMin
	case TierThirdParty:
		if authenticated {
			return p.cfg.ThirdPartyAuthPerMin
		}
		return p.cfg.ThirdPartyUnauthPerMin
	default:
		if authenticated {
			return p.cfg.AuthPerMin
		}
		return p.cfg.UnauthPerMin
	}
}

// Key returns rl:{user|ip}:{id}:{unix/60}.
func (p *Policy) Key(id Identity, now time.Time) string {
	return fmt.Sprintf("rl:%s:%s:%d", id.Kind, id.Value, WindowIndex(now, Window))
}

// Quota computes header values for a request that produced count.
func (p *Policy) Quota(limit int, count int64, now time.Time) Quota {
	retry := RetryAfter(now)
	return Quota{
		Limit:      limit,
		Remaining:  int(max(0, int64(limit)-count)),
		Reset:      now.Unix() + retry,
		RetryAfter: retry,
	}
}

// RetryAfter returns seconds until the next minute boundary, in 1..60.
func RetryAfter(now time.Time) int64 {
	secs := int64(Window / time.Second)
	return secs - now.Unix()%secs
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
