// Package runinfo describes the CI environment a harness run executes in.
package runinfo

import (
	"os"
	"regexp"
	"strings"
)

// OverridePrefix prefixes environment variables that take precedence over
// provider detection, e.g. XMLTRIP_CI_COMMIT.
const OverridePrefix = "XMLTRIP_CI"

var pullRefPattern = regexp.MustCompile(`^refs/pull/([0-9]+)/`)

// BasicInfo is CI metadata attached to run summaries.
type BasicInfo struct {
	CI          bool   `json:"ci,omitempty"`
	Provider    string `json:"provider,omitempty"`
	Repository  string `json:"repository,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Commit      string `json:"commit,omitempty"`
	Job         string `json:"job,omitempty"`
	RunID       string `json:"run_id,omitempty"`
	PullRequest string `json:"pull_request,omitempty"`
	BuildURL    string `json:"build_url,omitempty"`
}

// IsZero reports whether no metadata was detected.
func (b BasicInfo) IsZero() bool {
	return b == BasicInfo{}
}

type provider struct {
	name   string
	detect func() bool
	fill   func(*BasicInfo)
}

var providers = []provider{
	{
		name:   "github_actions",
		detect: func() bool { return isTruthy(env("GITHUB_ACTIONS")) },
		fill: func(b *BasicInfo) {
			b.Repository = env("GITHUB_REPOSITORY")
			b.Branch = envFirst("GITHUB_HEAD_REF", "GITHUB_REF_NAME")
			b.Commit = env("GITHUB_SHA")
			b.Job = env("GITHUB_JOB")
			b.RunID = env("GITHUB_RUN_ID")
			b.PullRequest = pullRequestFromRef(env("GITHUB_REF"))
			if b.Repository != "" && b.RunID != "" {
				server := envFirst("GITHUB_SERVER_URL")
				if server == "" {
					server = "https://github.com"
				}
				b.BuildURL = strings.TrimRight(server, "/") + "/" + b.Repository + "/actions/runs/" + b.RunID
			}
		},
	},
	{
		name:   "gitlab_ci",
		detect: func() bool { return isTruthy(env("GITLAB_CI")) },
		fill: func(b *BasicInfo) {
			b.Repository = env("CI_PROJECT_PATH")
			b.Branch = env("CI_COMMIT_REF_NAME")
			b.Commit = env("CI_COMMIT_SHA")
			b.Job = env("CI_JOB_NAME")
			b.RunID = env("CI_PIPELINE_ID")
			b.PullRequest = env("CI_MERGE_REQUEST_IID")
			b.BuildURL = env("CI_JOB_URL")
		},
	},
	{
		name:   "jenkins",
		detect: func() bool { return env("JENKINS_URL") != "" },
		fill: func(b *BasicInfo) {
			b.Branch = envFirst("BRANCH_NAME", "GIT_BRANCH")
			b.Commit = env("GIT_COMMIT")
			b.Job = env("JOB_NAME")
			b.RunID = env("BUILD_ID")
			b.PullRequest = env("CHANGE_ID")
			b.BuildURL = env("BUILD_URL")
		},
	},
}

// FromEnv builds run metadata from environment variables. It returns nil
// when nothing was detected.
func FromEnv() *BasicInfo {
	info := BasicInfo{}
	for _, p := range providers {
		if p.detect() {
			info.CI = true
			info.Provider = p.name
			p.fill(&info)
			break
		}
	}
	if !info.CI && isTruthy(env("CI")) {
		info.CI = true
		info.Provider = "generic"
	}
	applyOverrides(&info)
	info.Branch = strings.TrimPrefix(strings.TrimPrefix(info.Branch, "refs/heads/"), "origin/")
	if info.IsZero() {
		return nil
	}
	return &info
}

func applyOverrides(info *BasicInfo) {
	fields := map[string]*string{
		"PROVIDER":     &info.Provider,
		"REPOSITORY":   &info.Repository,
		"BRANCH":       &info.Branch,
		"COMMIT":       &info.Commit,
		"JOB":          &info.Job,
		"RUN_ID":       &info.RunID,
		"PULL_REQUEST": &info.PullRequest,
		"BUILD_URL":    &info.BuildURL,
	}
	overridden := false
	for suffix, dst := range fields {
		if v := env(OverridePrefix + "_" + suffix); v != "" {
			*dst = v
			overridden = true
		}
	}
	if raw, ok := os.LookupEnv(OverridePrefix); ok && strings.TrimSpace(raw) != "" {
		info.CI = isTruthy(raw)
	} else if overridden {
		info.CI = true
	}
	info.Provider = strings.ToLower(info.Provider)
	if info.CI && info.Provider == "" {
		info.Provider = "generic"
	}
}

func pullRequestFromRef(ref string) string {
	if m := pullRefPattern.FindStringSubmatch(ref); len(m) > 1 {
		return m[1]
	}
	return ""
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envFirst(keys ...string) string {
	for _, key := range keys {
		if v := env(key); v != "" {
			return v
		}
	}
	return ""
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
