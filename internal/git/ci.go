package git

import "strings"

// CIInfo holds build descriptors taken from the CI environment
type CIInfo struct {
	Provider      string
	BuildName     string
	BuildNumber   string
	BuildURL      string
	Branch        string
	RepoName      string
	RepositoryURL string
}

// DetectCI reads build descriptors of GitHub Actions, GitLab CI, Jenkins
// and CircleCI from getenv. It returns a zero CIInfo outside of CI.
func DetectCI(getenv func(string) string) CIInfo {
	switch {
	case getenv("GITHUB_ACTIONS") == "true":
		server := getenv("GITHUB_SERVER_URL")
		repo := getenv("GITHUB_REPOSITORY")
		info := CIInfo{
			Provider:    "github",
			BuildName:   getenv("GITHUB_WORKFLOW"),
			BuildNumber: getenv("GITHUB_RUN_NUMBER"),
			Branch:      firstNonEmpty(getenv("GITHUB_HEAD_REF"), getenv("GITHUB_REF_NAME")),
			RepoName:    RepoName(repo),
		}
		if server != "" && repo != "" {
			info.RepositoryURL = server + "/" + repo
			if id := getenv("GITHUB_RUN_ID"); id != "" {
				info.BuildURL = info.RepositoryURL + "/actions/runs/" + id
			}
		}
		return info

	case getenv("GITLAB_CI") == "true":
		return CIInfo{
			Provider:      "gitlab",
			BuildName:     getenv("CI_JOB_NAME"),
			BuildNumber:   getenv("CI_PIPELINE_IID"),
			BuildURL:      getenv("CI_JOB_URL"),
			Branch:        firstNonEmpty(getenv("CI_MERGE_REQUEST_SOURCE_BRANCH_NAME"), getenv("CI_COMMIT_REF_NAME")),
			RepoName:      getenv("CI_PROJECT_NAME"),
			RepositoryURL: getenv("CI_PROJECT_URL"),
		}

	case getenv("JENKINS_URL") != "":
		return CIInfo{
			Provider:      "jenkins",
			BuildName:     getenv("JOB_NAME"),
			BuildNumber:   getenv("BUILD_NUMBER"),
			BuildURL:      getenv("BUILD_URL"),
			Branch:        strings.TrimPrefix(firstNonEmpty(getenv("BRANCH_NAME"), getenv("GIT_BRANCH")), "origin/"),
			RepoName:      RepoName(getenv("GIT_URL")),
			RepositoryURL: SanitizeRemote(getenv("GIT_URL")),
		}

	case getenv("CIRCLECI") == "true":
		return CIInfo{
			Provider:      "circleci",
			BuildName:     getenv("CIRCLE_JOB"),
			BuildNumber:   getenv("CIRCLE_BUILD_NUM"),
			BuildURL:      getenv("CIRCLE_BUILD_URL"),
			Branch:        getenv("CIRCLE_BRANCH"),
			RepoName:      getenv("CIRCLE_PROJECT_REPONAME"),
			RepositoryURL: SanitizeRemote(getenv("CIRCLE_REPOSITORY_URL")),
		}
	}

	return CIInfo{}
}

// Options returns the detected values keyed by option name
func (c CIInfo) Options() map[string]any {
	opts := map[string]any{}
	set := func(key, value string) {
		if value != "" {
			opts[key] = value
		}
	}

	set("buildName", c.BuildName)
	set("buildNumber", c.BuildNumber)
	set("buildUrl", c.BuildURL)
	set("branchName", c.Branch)
	set("repositoryName", c.RepoName)
	set("repositoryUrl", c.RepositoryURL)

	return opts
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
