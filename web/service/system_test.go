package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChangelogDefaultsAndOverride(t *testing.T) {
	setupDB(t)
	systemService := &SystemService{}

	logs := systemService.GetChangelog()
	require.NotEmpty(t, logs)
	require.Equal(t, defaultChangelog, logs)

	custom := []ChangelogEntry{{Date: "2026-02-01", Ver: "v6.2.0", Content: "balance pass", Tag: "feature"}}
	require.NoError(t, systemService.SaveChangelog(custom))
	require.Equal(t, custom, systemService.GetChangelog())
}

func TestAnnouncementRoundTrip(t *testing.T) {
	setupDB(t)
	systemService := &SystemService{}

	empty := systemService.GetAnnouncement()
	require.False(t, empty.Enabled)
	require.Zero(t, empty.Id)

	saved := &Announcement{Enabled: true, Title: "维护公告", Content: "tonight 22:00"}
	require.NoError(t, systemService.SaveAnnouncement(saved))
	require.NotZero(t, saved.Id)

	loaded := systemService.GetAnnouncement()
	require.True(t, loaded.Enabled)
	require.Equal(t, "维护公告", loaded.Title)
	require.Equal(t, saved.Id, loaded.Id)
}
