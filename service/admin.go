package service

import (
	"strings"

	"blog-articles-service/model"
)

const DefaultAdminEmail = "admin@my-blog.com"

// AdminPolicy decides who may clear an article's interactions: any viewer
// whose email is on the allow-list, or whose token carries the admin claim.
type AdminPolicy struct {
	emails map[string]struct{}
	claim  string
}

func NewAdminPolicy(emails []string, claim string) AdminPolicy {
	p := AdminPolicy{emails: make(map[string]struct{}, len(emails)), claim: claim}
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			p.emails[e] = struct{}{}
		}
	}
	return p
}

func (p AdminPolicy) IsAdmin(viewer *model.Identity) bool {
	if viewer == nil || viewer.UID == "" {
		return false
	}
	if viewer.BoolClaim(p.claim) {
		return true
	}
	if viewer.Email == "" {
		return false
	}
	_, ok := p.emails[strings.ToLower(viewer.Email)]
	return ok
}
