package runinfo

import (
	"os"
	"testing"
)

var knownEnv = []string{
	"CI", "GITHUB_ACTIONS", "GITHUB_REPOSITORY", "GITHUB_HEAD_REF", "GITHUB_REF_NAME", "GITHUB_REF",
	"GITHUB_SHA", "GITHUB_JOB", "GITHUB_RUN_ID", "GITHUB_SERVER_URL",
	"GITLAB_CI", "CI_PROJECT_PATH", "CI_COMMIT_REF_NAME", "CI_COMMIT_SHA", "CI_JOB_NAME",
	"CI_PIPELINE_ID", "CI_MERGE_REQUEST_IID", "CI_JOB_URL",
	"JENKINS_URL", "BRANCH_NAME", "GIT_BRANCH", "GIT_COMMIT", "JOB_NAME", "BUILD_ID", "CHANGE_ID", "BUILD_URL",
	OverridePrefix,
	OverridePrefix + "_PROVIDER", OverridePrefix + "_REPOSITORY", OverridePrefix + "_BRANCH",
	OverridePrefix + "_COMMIT", OverridePrefix + "_JOB", OverridePrefix + "_RUN_ID",
	OverridePrefix + "_PULL_REQUEST", OverridePrefix + "_BUILD_URL",
}

func clearKnownEnv(t *testing.T) {
	t.Helper()
	for _, key := range knownEnv {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func TestFromEnvGitHubActions(t *testing.T) {
	clearKnownEnv(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_REPOSITORY", "acme/xmltrip")
	t.Setenv("GITHUB_HEAD_REF", "feature/xmlns")
	t.Setenv("GITHUB_REF", "refs/pull/17/merge")
	t.Setenv("GITHUB_SHA", "deadbeef")
	t.Setenv("GITHUB_RUN_ID", "123456")

	info := FromEnv()
	if info == nil {
		t.Fatalf("expected run info")
	}
	if !info.CI || info.Provider != "github_actions" {
		t.Fatalf("unexpected provider: %+v", *info)
	}
	if info.Branch != "feature/xmlns" {
		t.Fatalf("branch=%q", info.Branch)
	}
	if info.PullRequest != "17" {
		t.Fatalf("pull_request=%q", info.PullRequest)
	}
	if info.BuildURL != "https://github.com/acme/xmltrip/actions/runs/123456" {
		t.Fatalf("build_url=%q", info.BuildURL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearKnownEnv(t)
	t.Setenv("JENKINS_URL", "https://ci.example.com")
	t.Setenv("GIT_BRANCH", "origin/main")
	t.Setenv(OverridePrefix+"_COMMIT", "abc123")
	t.Setenv(OverridePrefix+"_PROVIDER", "Manual")

	info := FromEnv()
	if info == nil {
		t.Fatalf("expected run info")
	}
	if info.Provider != "manual" {
		t.Fatalf("provider=%q", info.Provider)
	}
	if info.Branch != "main" {
		t.Fatalf("branch=%q", info.Branch)
	}
	if info.Commit != "abc123" {
		t.Fatalf("commit=%q", info.Commit)
	}
}

func TestFromEnvExplicitFalse(t *testing.T) {
	clearKnownEnv(t)
	t.Setenv(OverridePrefix, "false")
	t.Setenv(OverridePrefix+"_COMMIT", "abc123")

	info := FromEnv()
	if info == nil {
		t.Fatalf("expected run info")
	}
	if info.CI {
		t.Fatalf("expected ci=false when explicitly disabled")
	}
}

func TestFromEnvEmpty(t *testing.T) {
	clearKnownEnv(t)
	if info := FromEnv(); info != nil {
		t.Fatalf("expected nil run info, got %+v", *info)
	}
}
