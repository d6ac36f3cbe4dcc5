package model

// DateClicks is one calendar-day bucket.
type DateClicks struct {
	Date        string `json:"date"`
	Clicks      int64  `json:"clicks"`
	UniqueUsers int64  `json:"uniqueUsers"`
}

// OSClicks groups clicks by raw user-agent string.
type OSClicks struct {
	OSName       string `json:"osName"`
	UniqueClicks int64  `json:"uniqueClicks"`
	UniqueUsers  int64  `json:"uniqueUsers"`
}

// DeviceClicks groups clicks by device class.
type DeviceClicks struct {
	DeviceName   string `json:"deviceName"`
	UniqueClicks int64  `json:"uniqueClicks"`
	UniqueUsers  int64  `json:"uniqueUsers"`
}

// URLClicks is the per-alias breakdown inside a topic snapshot.
type URLClicks struct {
	ShortURL    string `json:"shortUrl"`
	TotalClicks int64  `json:"totalClicks"`
	UniqueUsers int64  `json:"uniqueUsers"`
}

// AliasSnapshot is the analytics payload for a single alias.
type AliasSnapshot struct {
	TotalClicks  int64          `json:"totalClicks"`
	UniqueUsers  int64          `json:"uniqueUsers"`
	ClicksByDate []DateClicks   `json:"clicksByDate"`
	OSType       []OSClicks     `json:"osType"`
	DeviceType   []DeviceClicks `json:"deviceType"`
}

// TopicSnapshot is the analytics payload for every alias sharing a topic.
type TopicSnapshot struct {
	TotalClicks  int64        `json:"totalClicks"`
	UniqueUsers  int64        `json:"uniqueUsers"`
	ClicksByDate []DateClicks `json:"clicksByDate"`
	URLs         []URLClicks  `json:"urls"`
}

// OwnerSnapshot is the analytics payload for every alias a user owns.
type OwnerSnapshot struct {
	TotalURLs    int            `json:"totalUrls"`
	TotalClicks  int64          `json:"totalClicks"`
	UniqueUsers  int64          `json:"uniqueUsers"`
	ClicksByDate []DateClicks   `json:"clicksByDate"`
	OSType       []OSClicks     `json:"osType"`
	DeviceType   []DeviceClicks `json:"deviceType"`
}
