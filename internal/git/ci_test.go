package git

import (
	"reflect"
	"testing"
)

func envFrom(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

func TestDetectCI(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want CIInfo
	}{
		{
			name: "not in CI",
			env:  map[string]string{"HOME": "/root"},
			want: CIInfo{},
		},
		{
			name: "github actions push",
			env: map[string]string{
				"GITHUB_ACTIONS":    "true",
				"GITHUB_WORKFLOW":   "api-tests",
				"GITHUB_RUN_NUMBER": "42",
				"GITHUB_RUN_ID":     "9001",
				"GITHUB_SERVER_URL": "https://github.com",
				"GITHUB_REPOSITORY": "acme/orders-api",
				"GITHUB_REF_NAME":   "main",
			},
			want: CIInfo{
				Provider:      "github",
				BuildName:     "api-tests",
				BuildNumber:   "42",
				BuildURL:      "https://github.com/acme/orders-api/actions/runs/9001",
				Branch:        "main",
				RepoName:      "orders-api",
				RepositoryURL: "https://github.com/acme/orders-api",
			},
		},
		{
			name: "github actions pull request uses head ref",
			env: map[string]string{
				"GITHUB_ACTIONS":  "true",
				"GITHUB_HEAD_REF": "feature/x",
				"GITHUB_REF_NAME": "12/merge",
			},
			want: CIInfo{Provider: "github", Branch: "feature/x"},
		},
		{
			name: "gitlab",
			env: map[string]string{
				"GITLAB_CI":          "true",
				"CI_JOB_NAME":        "newman",
				"CI_PIPELINE_IID":    "7",
				"CI_JOB_URL":         "https://gitlab.com/acme/api/-/jobs/1",
				"CI_COMMIT_REF_NAME": "develop",
				"CI_PROJECT_NAME":    "api",
				"CI_PROJECT_URL":     "https://gitlab.com/acme/api",
			},
			want: CIInfo{
				Provider:      "gitlab",
				BuildName:     "newman",
				BuildNumber:   "7",
				BuildURL:      "https://gitlab.com/acme/api/-/jobs/1",
				Branch:        "develop",
				RepoName:      "api",
				RepositoryURL: "https://gitlab.com/acme/api",
			},
		},
		{
			name: "jenkins",
			env: map[string]string{
				"JENKINS_URL":  "https://ci.acme.dev/",
				"JOB_NAME":     "api/main",
				"BUILD_NUMBER": "311",
				"BUILD_URL":    "https://ci.acme.dev/job/api/311/",
				"GIT_BRANCH":   "origin/main",
				"GIT_URL":      "https://bot:pw@git.acme.dev/acme/api.git",
			},
			want: CIInfo{
				Provider:      "jenkins",
				BuildName:     "api/main",
				BuildNumber:   "311",
				BuildURL:      "https://ci.acme.dev/job/api/311/",
				Branch:        "main",
				RepoName:      "api",
				RepositoryURL: "https://git.acme.dev/acme/api.git",
			},
		},
		{
			name: "circleci",
			env: map[string]string{
				"CIRCLECI":                "true",
				"CIRCLE_JOB":              "test",
				"CIRCLE_BUILD_NUM":        "88",
				"CIRCLE_BUILD_URL":        "https://circleci.com/gh/acme/api/88",
				"CIRCLE_BRANCH":           "main",
				"CIRCLE_PROJECT_REPONAME": "api",
				"CIRCLE_REPOSITORY_URL":   "git@github.com:acme/api.git",
			},
			want: CIInfo{
				Provider:      "circleci",
				BuildName:     "test",
				BuildNumber:   "88",
				BuildURL:      "https://circleci.com/gh/acme/api/88",
				Branch:        "main",
				RepoName:      "api",
				RepositoryURL: "git@github.com:acme/api.git",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectCI(envFrom(tt.env))
			if got != tt.want {
				t.Errorf("DetectCI() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCIInfoOptions(t *testing.T) {
	info := CIInfo{Provider: "github", BuildName: "ci", BuildNumber: "3", Branch: "main"}

	want := map[string]any{
		"buildName":   "ci",
		"buildNumber": "3",
		"branchName":  "main",
	}
	if got := info.Options(); !reflect.DeepEqual(got, want) {
		t.Errorf("Options() = %v, want %v", got, want)
	}

	if got := (CIInfo{}).Options(); len(got) != 0 {
		t.Errorf("Options() of empty info = %v", got)
	}
}
