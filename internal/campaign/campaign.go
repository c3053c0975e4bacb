// Package campaign synthesizes the mock campaign corpus and answers list and
// lookup queries against it.
package campaign

import (
	"strconv"
	"time"
)

// Type is the campaign type
type Type string

const (
	TypeSingle     Type = "single"
	TypeAutomation Type = "automation"
	TypeSplit      Type = "split"
)

// Status is the campaign status
type Status string

const (
	StatusSent      Status = "sent"
	StatusScheduled Status = "scheduled"
	StatusDraft     Status = "draft"
)

var (
	types    = []string{string(TypeSingle), string(TypeAutomation), string(TypeSplit)}
	statuses = []string{string(StatusSent), string(StatusScheduled), string(StatusDraft)}
)

// IDOffset is added to a record's corpus index to form its ID.
const IDOffset = 1000

// linkNames are the related sub-resources exposed under every campaign.
var linkNames = []string{
	"bounceLogs",
	"contactAutomations",
	"contactData",
	"contactGoals",
	"contactLists",
	"contactLogs",
	"contactTags",
	"contactDeals",
	"deals",
	"fieldValues",
	"geoIps",
	"notes",
	"organization",
	"plusAppend",
	"trackingLogs",
	"scoreValues",
}

// Campaign is one synthesized campaign record. Records held by a Corpus are
// shared between requests and must be treated as read-only.
type Campaign struct {
	ID     int64
	Type   Type
	Status Status
	Name   string
	Source string

	CreatedAt    time.Time
	UpdatedAt    time.Time
	SendDate     *time.Time
	LastSendDate *time.Time

	// Automation is the owning automation ID. It is set, and equal to ID,
	// only for automation campaigns.
	Automation *int64

	Metrics  Metrics
	Refs     Refs
	Settings Settings
}

// Metrics holds the delivery and engagement counters of a campaign.
type Metrics struct {
	EmailsSent       int
	Opens            int
	UniqueOpens      int
	LinkClicks       int
	UniqueLinkClicks int
	SubscriberClicks int
	Forwards         int
	UniqueForwards   int
	HardBounces      int
	SoftBounces      int
	Unsubscribes     int
	Updates          int
	SocialShares     int
	Replies          int
	UniqueReplies    int
	Tweets           int
	FacebookShares   int
	Surveys          int
}

// Refs holds identifiers of related platform objects.
type Refs struct {
	UserID               int
	SegmentID            int
	BounceID             int
	RealCID              int
	SendID               int
	ThreadID             int
	SeriesID             int // 0 unless the campaign is an automation
	FormID               int
	BaseTemplateID       int
	BaseMessageID        int
	AddressID            int
	SplitWinnerMessageID int
	User                 int
}

// Settings holds the configuration fields of a campaign. None of them take
// part in metric invariants.
type Settings struct {
	UnsubReasons string
	Public       bool

	MailTransfer  string
	MailSend      string
	MailCleanup   string
	MailerLogFile string

	TrackLinks            string
	TrackLinksAnalytics   string
	TrackReads            bool
	TrackReadsAnalytics   bool
	AnalyticsCampaignName string

	EmbedImages   bool
	HTMLUnsub     bool
	TextUnsub     bool
	HTMLUnsubData *string
	TextUnsubData *string
	Recurring     bool
	WillRecur     bool

	SplitType           string
	SplitContent        string
	SplitOffset         int
	SplitOffsetType     string
	SplitWinnerAwaiting bool

	ResponderOffset   int
	ResponderType     string
	ResponderExisting bool

	ReminderField       string
	ReminderFormat      *string
	ReminderType        string
	ReminderOffset      int
	ReminderOffsetType  string
	ReminderOffsetSign  string
	ReminderLastCronRun *time.Time

	ActiveRSSInterval int
	ActiveRSSURL      *string
	ActiveRSSItems    int

	IP4           string
	LastStep      int
	ManageText    bool
	Schedule      bool
	ScheduledDate *time.Time
	WaitPreview   bool
	DeleteStamp   *time.Time
	ReplySys      bool
}

// IsAutomation reports whether the campaign belongs to an automation.
func (c Campaign) IsAutomation() bool {
	return c.Type == TypeAutomation
}

// Links returns the related-resource paths of the campaign keyed by
// sub-resource name.
func (c Campaign) Links() map[string]string {
	base := "/api/3/campaigns/" + strconv.FormatInt(c.ID, 10)
	links := make(map[string]string, len(linkNames))
	for _, name := range linkNames {
		links[name] = base + "/" + name
	}
	return links
}
