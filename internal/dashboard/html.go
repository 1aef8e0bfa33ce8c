package dashboard

import (
	"fmt"
	"html/template"
	"os"
	"sort"
	"time"
)

// writeHTMLDashboard generates the HTML report
func writeHTMLDashboard(path string, summary Summary) error {
	type DashboardData struct {
		Summary
		Tests    []TestStats
		Timezone string
	}

	data := DashboardData{
		Summary:  summary,
		Tests:    sortedTests(summary.TestStats),
		Timezone: getLocalTimezone(),
	}

	tmpl, err := template.New("dashboard").Funcs(template.FuncMap{
		"formatDuration": formatDuration,
		"formatTime":     formatTime,
		"formatStart":    formatStart,
		"statusClass":    statusClass,
		"statusSymbol":   statusSymbol,
		"passRate":       passRate,
		"int64":          func(f float64) int64 { return int64(f) },
	}).Parse(dashboardTemplate)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// sortedTests orders flaky tests first, then by failures, then by name
func sortedTests(stats map[string]TestStats) []TestStats {
	tests := make([]TestStats, 0, len(stats))
	for _, s := range stats {
		tests = append(tests, s)
	}
	sort.Slice(tests, func(i, j int) bool {
		a, b := tests[i], tests[j]
		if a.Flaky != b.Flaky {
			return a.Flaky
		}
		if a.FailCount != b.FailCount {
			return a.FailCount > b.FailCount
		}
		if a.Suite != b.Suite {
			return a.Suite < b.Suite
		}
		return a.Name < b.Name
	})
	return tests
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := float64(ms) / 1000.0
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	minutes := int(seconds / 60)
	secs := int(seconds) % 60
	return fmt.Sprintf("%dm %ds", minutes, secs)
}

func formatTime(timestamp string) string {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// formatStart formats a report start in epoch milliseconds
func formatStart(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}

func getLocalTimezone() string {
	zone, _ := time.Now().Zone()
	return zone
}

func passRate(s TestStats) string {
	if s.TotalRuns == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.0f%% (%d/%d)", float64(s.PassCount)*100/float64(s.TotalRuns), s.PassCount, s.TotalRuns)
}

func statusClass(status string) string {
	switch status {
	case "PASS", "passed":
		return "pass"
	case "FAIL", "failed":
		return "fail"
	case "SKIPPED", "skipped":
		return "skip"
	default:
		return ""
	}
}

func statusSymbol(status string) string {
	switch status {
	case "PASS", "passed":
		return "✓"
	case "FAIL", "failed":
		return "✗"
	case "SKIPPED", "skipped":
		return "⊘"
	default:
		return "•"
	}
}

const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>CTRF Dashboard</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            background: #f5f5f5;
            color: #333;
            line-height: 1.6;
        }
        .container { max-width: 1400px; margin: 0 auto; padding: 20px; }
        header, .section, .stat-card {
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        header { padding: 30px; margin-bottom: 30px; }
        h1 { font-size: 32px; margin-bottom: 10px; color: #2c3e50; }
        h2 { font-size: 24px; margin-bottom: 20px; color: #2c3e50; }
        .subtitle { color: #7f8c8d; font-size: 14px; }
        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin-bottom: 30px;
        }
        .stat-card { padding: 20px; }
        .stat-value { font-size: 36px; font-weight: bold; color: #2c3e50; }
        .stat-label { color: #7f8c8d; font-size: 14px; margin-top: 5px; }
        .section { padding: 30px; margin-bottom: 30px; }
        table { width: 100%; border-collapse: collapse; }
        th {
            text-align: left;
            padding: 12px;
            background: #f8f9fa;
            font-weight: 600;
            color: #2c3e50;
            border-bottom: 2px solid #dee2e6;
        }
        td { padding: 12px; border-bottom: 1px solid #dee2e6; }
        tr:hover { background: #f8f9fa; }
        .badge { display: inline-block; padding: 4px 8px; border-radius: 4px; font-size: 12px; font-weight: 600; }
        .badge-pass { background: #d4edda; color: #155724; }
        .badge-fail { background: #f8d7da; color: #721c24; }
        .badge-skip { background: #fff3cd; color: #856404; }
        .mono { font-family: 'Monaco', 'Menlo', 'Courier New', monospace; font-size: 13px; }
        .muted { color: #7f8c8d; }
        .empty-state { text-align: center; padding: 60px 20px; color: #7f8c8d; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>CTRF Dashboard</h1>
            <div class="subtitle">Last updated: {{formatTime .LastGenerated}}</div>
        </header>

        <div class="stats-grid">
            <div class="stat-card">
                <div class="stat-value">{{.TotalReports}}</div>
                <div class="stat-label">Reports</div>
            </div>
            <div class="stat-card">
                <div class="stat-value">{{len .Tests}}</div>
                <div class="stat-label">Tests</div>
            </div>
        </div>

        <div class="section">
            <h2>Recent Reports</h2>
            {{if .RecentReports}}
            <table>
                <thead>
                    <tr>
                        <th>Report</th>
                        <th>Started ({{.Timezone}})</th>
                        <th>Status</th>
                        <th>Tests</th>
                        <th>Duration</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .RecentReports}}
                    <tr>
                        <td class="mono"><a href="{{.Path}}">{{.Path}}</a></td>
                        <td>{{formatStart .Start}}</td>
                        <td>
                            <span class="badge badge-{{.Status | statusClass}}">
                                {{statusSymbol .Status}} {{.Status}}
                            </span>
                        </td>
                        <td>{{.Tests}} ({{.PassCount}} passed, {{.FailCount}} failed, {{.SkipCount}} skipped)</td>
                        <td>{{formatDuration .Duration}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{else}}
            <div class="empty-state">
                <p>No reports yet. Convert a Newman run to see results here!</p>
            </div>
            {{end}}
        </div>

        <div class="section">
            <h2>Test Statistics</h2>
            {{if .Tests}}
            <table>
                <thead>
                    <tr>
                        <th>Test</th>
                        <th>Last Status</th>
                        <th>Pass Rate</th>
                        <th>Avg Duration</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Tests}}
                    <tr>
                        <td>
                            <strong>{{.Name}}</strong>
                            {{if .Suite}}<div class="muted mono">{{.Suite}}</div>{{end}}
                            {{if .Flaky}}<span class="badge badge-skip">flaky</span>{{end}}
                        </td>
                        <td>
                            <span class="badge badge-{{.LastStatus | statusClass}}">
                                {{statusSymbol .LastStatus}} {{.LastStatus}}
                            </span>
                        </td>
                        <td>{{passRate .}}</td>
                        <td>{{formatDuration (int64 .AvgDuration)}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{else}}
            <div class="empty-state">
                <p>No test statistics available yet.</p>
            </div>
            {{end}}
        </div>
    </div>
</body>
</html>
`
