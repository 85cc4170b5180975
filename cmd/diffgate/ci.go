package diffgate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

type ciTemplate struct {
	path    string
	content string
}

var ciTemplates = map[string]ciTemplate{
	"github": {
		path: ".github/workflows/diffgate.yml",
		content: `name: diffgate
on: [pull_request]
jobs:
  gate:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
        with:
          fetch-depth: 0
      - uses: actions/setup-go@v5
        with:
          go-version: '1.25.x'
      - run: go install github.com/varalys/diffgate@latest
      - name: Security gate
        run: git diff origin/${{ github.base_ref }}...HEAD | diffgate scan --format sarif > diffgate.sarif
      - uses: github/codeql-action/upload-sarif@v3
        if: always()
        with:
          sarif_file: diffgate.sarif
`,
	},
	"gitlab": {
		path: ".gitlab-ci.yml",
		content: `stages: [gate]
diffgate:
  stage: gate
  image: golang:1.25
  rules:
    - if: $CI_PIPELINE_SOURCE == "merge_request_event"
  script:
    - go install github.com/varalys/diffgate@latest
    - git fetch origin $CI_MERGE_REQUEST_TARGET_BRANCH_NAME
    - git diff origin/$CI_MERGE_REQUEST_TARGET_BRANCH_NAME...HEAD | diffgate scan | tee diffgate-findings.json
  artifacts:
    when: always
    paths:
      - diffgate-findings.json
`,
	},
	"bitbucket": {
		path: "bitbucket-pipelines.yml",
		content: `pipelines:
  pull-requests:
    '**':
      - step:
          name: diffgate
          image: golang:1.25
          script:
            - go install github.com/varalys/diffgate@latest
            - git fetch origin $BITBUCKET_PR_DESTINATION_BRANCH
            - git diff origin/$BITBUCKET_PR_DESTINATION_BRANCH...HEAD | diffgate scan | tee diffgate-findings.json
          artifacts:
            - diffgate-findings.json
`,
	},
	"azure": {
		path: "azure-pipelines.yml",
		content: `pr:
- main

pool:
  vmImage: 'ubuntu-latest'

steps:
- checkout: self
  fetchDepth: 0
- task: GoTool@0
  inputs:
    version: '1.25.x'
- script: |
    go install github.com/varalys/diffgate@latest
    git diff origin/$(System.PullRequest.TargetBranch)...HEAD | $(go env GOPATH)/bin/diffgate scan | tee diffgate-findings.json
  displayName: 'diffgate security gate'
- publish: diffgate-findings.json
  artifact: diffgate-findings
  condition: succeededOrFailed()
`,
	},
}

func ciProviders() []string {
	out := make([]string, 0, len(ciTemplates))
	for k := range ciTemplates {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (a *app) ciCmd() *cobra.Command {
	ci := &cobra.Command{Use: "ci", Short: "CI template helpers for multiple providers"}

	var provider, dir string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a CI pipeline template that gates pull requests",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			tpl, ok := ciTemplates[strings.ToLower(provider)]
			if !ok {
				return fmt.Errorf("unknown --provider %q. Supported: %s", provider, strings.Join(ciProviders(), ", "))
			}
			path := filepath.Join(dir, tpl.path)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(tpl.content), 0o644); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Wrote", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&provider, "provider", "", "CI provider: "+strings.Join(ciProviders(), " | "))
	initCmd.Flags().StringVar(&dir, "dir", ".", "repository root to write into")
	_ = initCmd.MarkFlagRequired("provider")
	ci.AddCommand(initCmd)
	return ci
}
