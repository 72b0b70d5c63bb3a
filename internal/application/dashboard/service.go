package dashboard

import domain "github.com/bryanwahyu/company-insight/internal/domain/dashboard"

var dauPoints = []domain.ChartPoint{
	{Year: "2017", Value: 66, Label: "66M"},
	{Year: "2018", Value: 117, Label: "117M"},
	{Year: "2019", Value: 176, Label: "176M"},
	{Year: "2020", Value: 264, Label: "264M"},
	{Year: "2021", Value: 323, Label: "323M"},
	{Year: "2022", Value: 366, Label: "366M"},
	{Year: "2023", Value: 383, Label: "383M"},
}

var revenuePoints = []domain.ChartPoint{
	{Year: "2017", Value: 8.3, Label: "¥8.3B"},
	{Year: "2018", Value: 20.3, Label: "¥20.3B"},
	{Year: "2019", Value: 39.1, Label: "¥39.1B"},
	{Year: "2020", Value: 58.8, Label: "¥58.8B"},
	{Year: "2021", Value: 81.1, Label: "¥81.1B"},
	{Year: "2022", Value: 94.2, Label: "¥94.2B"},
	{Year: "2023", Value: 113.5, Label: "¥113.5B"},
}

var stats = []domain.Stat{
	{Label: "Daily Active Users (2023)", Value: "383 Million"},
	{Label: "Total Revenue (2023)", Value: "¥113.5 Billion"},
	{Label: "Primary App", Value: "Kuaishou App"},
	{Label: "Founded", Value: "2011"},
}

var timeline = []domain.TimelineEvent{
	{Year: "2011", Title: "GIF Kuaishou", Description: "Launched as a utility app for creating GIFs."},
	{Year: "2013", Title: "Pivot to Video", Description: "Transformed into a short-video social platform."},
	{Year: "2016", Title: "Live Streaming", Description: "Launched live streaming feature, becoming a major revenue driver."},
	{Year: "2021", Title: "IPO", Description: "Listed on HKEX (Stock Code: 1024)."},
}

// Service serves the static company metrics.
type Service struct{}

func NewService() *Service { return &Service{} }

// Overview returns a fresh copy of the dashboard data; callers may modify it.
func (s *Service) Overview() domain.Overview {
	return domain.Overview{
		Company: "Kuaishou Technology",
		Summary: "Key metrics and growth trajectory of Kuaishou Technology.",
		Stats:   append([]domain.Stat(nil), stats...),
		UserGrowth: domain.Series{
			Title:       "User Growth (DAU)",
			Description: "Daily Active Users in Millions (2017-2023)",
			Unit:        "M",
			Points:      append([]domain.ChartPoint(nil), dauPoints...),
		},
		Revenue: domain.Series{
			Title:       "Revenue Growth",
			Description: "Total Revenue in Billion RMB (2017-2023)",
			Unit:        "¥B",
			Points:      append([]domain.ChartPoint(nil), revenuePoints...),
		},
		Timeline: append([]domain.TimelineEvent(nil), timeline...),
	}
}
