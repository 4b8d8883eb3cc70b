// Package permissions loads the route to role table the RBAC middleware
// enforces. The table is embedded so a deploy cannot drift from the binary.
package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var policyJSON []byte

// Rule is one method and chi route pattern. Roles lists who may call it;
// an empty list admits any signed-in caller. Public routes skip auth.
type Rule struct {
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Roles  []string `json:"permissions"`
	Public bool     `json:"skip"`
}

func (r Rule) Allows(role string) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

// Policy is the whole table. Disabled turns RBAC off while keeping Auth.
type Policy struct {
	Disabled bool   `json:"skip"`
	Rules    []Rule `json:"endpoints"`

	byRoute map[string]Rule
}

func routeKey(method, pattern string) string {
	// Index routes of a sub router resolve with a trailing slash.
	if len(pattern) > 1 {
		pattern = strings.TrimSuffix(pattern, "/")
	}

	return method + " " + pattern
}

// Lookup finds the rule for a resolved chi pattern.
func (p *Policy) Lookup(method, pattern string) (Rule, bool) {
	if p == nil {
		return Rule{}, false
	}

	rule, ok := p.byRoute[routeKey(method, pattern)]

	return rule, ok
}

// Get decodes the embedded table, or returns nil when it is malformed so the
// RBAC middleware denies everything.
func Get() *Policy {
	var policy Policy

	if err := json.Unmarshal(policyJSON, &policy); err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	policy.byRoute = make(map[string]Rule, len(policy.Rules))

	for _, rule := range policy.Rules {
		key := routeKey(rule.Method, rule.Path)
		if _, dup := policy.byRoute[key]; dup {
			log.Warn().Str("route", key).Msg("Duplicate permission rule, keeping the first")

			continue
		}

		policy.byRoute[key] = rule
	}

	log.Info().Int("rules", len(policy.byRoute)).Msg("Loaded embedded permissions")

	return &policy
}
