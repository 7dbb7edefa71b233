package main

import "strings"

// videoPlatforms are hosts that never carry scrapeable article text.
// Matching is substring-based on the lowercased URL, not exact host
// comparison.
var videoPlatforms = []string{
	"youtube.com", "youtu.be", "tiktok.com", "t.co", "twitter.com",
	"instagram.com", "facebook.com", "twitch.tv", "vimeo.com",
	"dailymotion.com", "reddit.com", "pinterest.com", "snapchat.com",
	"linkedin.com", "tumblr.com", "discord.com", "telegram.org",
	"whatsapp.com", "signal.org", "wechat.com", "line.me",
	"kakao.com", "naver.com", "qq.com", "weibo.com",
}

// filterPlatformLinks drops URLs pointing at known non-article platforms,
// preserving order. Duplicates that survive the denylist are kept.
func filterPlatformLinks(links []string) []string {
	kept := make([]string, 0, len(links))
	for _, link := range links {
		if isVideoPlatform(link) {
			continue
		}
		kept = append(kept, link)
	}
	return kept
}

func isVideoPlatform(link string) bool {
	lowered := strings.ToLower(link)
	for _, platform := range videoPlatforms {
		if strings.Contains(lowered, platform) {
			return true
		}
	}
	return false
}

// filterRecords drops records whose title begins with the error sentinel or
// whose text is exactly the no-text sentinel, preserving order. Partial-error
// records (error title, non-sentinel text) are dropped too.
func filterRecords(records []ArticleRecord) []ArticleRecord {
	kept := make([]ArticleRecord, 0, len(records))
	for _, record := range records {
		if strings.HasPrefix(record.Title, errorPrefix) {
			continue
		}
		if record.Text == noTextFound {
			continue
		}
		kept = append(kept, record)
	}
	return kept
}
