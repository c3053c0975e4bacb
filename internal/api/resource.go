package api

import (
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/foxzi/campaignmock/internal/campaign"
)

// CampaignResource is the wire form of a campaign. Numeric and boolean
// fields are strings, as the emulated platform sends them.
type CampaignResource struct {
	Type                  string            `json:"type"`
	UserID                string            `json:"userid"`
	SegmentID             string            `json:"segmentid"`
	BounceID              string            `json:"bounceid"`
	RealCID               string            `json:"realcid"`
	SendID                string            `json:"sendid"`
	ThreadID              string            `json:"threadid"`
	SeriesID              string            `json:"seriesid"`
	FormID                string            `json:"formid"`
	BaseTemplateID        string            `json:"basetemplateid"`
	BaseMessageID         string            `json:"basemessageid"`
	AddressID             string            `json:"addressid"`
	Source                string            `json:"source"`
	Name                  string            `json:"name"`
	CDate                 strfmt.DateTime   `json:"cdate"`
	MDate                 strfmt.DateTime   `json:"mdate"`
	SDate                 *strfmt.DateTime  `json:"sdate"`
	LDate                 *strfmt.DateTime  `json:"ldate"`
	SendAmt               string            `json:"send_amt"`
	TotalAmt              string            `json:"total_amt"`
	Opens                 string            `json:"opens"`
	UniqueOpens           string            `json:"uniqueopens"`
	LinkClicks            string            `json:"linkclicks"`
	UniqueLinkClicks      string            `json:"uniquelinkclicks"`
	SubscriberClicks      string            `json:"subscriberclicks"`
	Forwards              string            `json:"forwards"`
	UniqueForwards        string            `json:"uniqueforwards"`
	HardBounces           string            `json:"hardbounces"`
	SoftBounces           string            `json:"softbounces"`
	Unsubscribes          string            `json:"unsubscribes"`
	UnsubReasons          string            `json:"unsubreasons"`
	Updates               string            `json:"updates"`
	SocialShares          string            `json:"socialshares"`
	Replies               string            `json:"replies"`
	UniqueReplies         string            `json:"uniquereplies"`
	Status                string            `json:"status"`
	Public                string            `json:"public"`
	MailTransfer          string            `json:"mail_transfer"`
	MailSend              string            `json:"mail_send"`
	MailCleanup           string            `json:"mail_cleanup"`
	MailerLogFile         string            `json:"mailer_log_file"`
	TrackLinks            string            `json:"tracklinks"`
	TrackLinksAnalytics   string            `json:"tracklinksanalytics"`
	TrackReads            string            `json:"trackreads"`
	TrackReadsAnalytics   string            `json:"trackreadsanalytics"`
	AnalyticsCampaignName string            `json:"analytics_campaign_name"`
	Tweet                 string            `json:"tweet"`
	Facebook              string            `json:"facebook"`
	Survey                string            `json:"survey"`
	EmbedImages           string            `json:"embed_images"`
	HTMLUnsub             string            `json:"htmlunsub"`
	TextUnsub             string            `json:"textunsub"`
	HTMLUnsubData         *string           `json:"htmlunsubdata"`
	TextUnsubData         *string           `json:"textunsubdata"`
	Recurring             string            `json:"recurring"`
	WillRecur             string            `json:"willrecur"`
	SplitType             string            `json:"split_type"`
	SplitContent          string            `json:"split_content"`
	SplitOffset           string            `json:"split_offset"`
	SplitOffsetType       string            `json:"split_offset_type"`
	SplitWinnerMessageID  string            `json:"split_winner_messageid"`
	SplitWinnerAwaiting   string            `json:"split_winner_awaiting"`
	ResponderOffset       string            `json:"responder_offset"`
	ResponderType         string            `json:"responder_type"`
	ResponderExisting     string            `json:"responder_existing"`
	ReminderField         string            `json:"reminder_field"`
	ReminderFormat        *string           `json:"reminder_format"`
	ReminderType          string            `json:"reminder_type"`
	ReminderOffset        string            `json:"reminder_offset"`
	ReminderOffsetType    string            `json:"reminder_offset_type"`
	ReminderOffsetSign    string            `json:"reminder_offset_sign"`
	ReminderLastCronRun   *strfmt.DateTime  `json:"reminder_last_cron_run"`
	ActiveRSSInterval     string            `json:"activerss_interval"`
	ActiveRSSURL          *string           `json:"activerss_url"`
	ActiveRSSItems        string            `json:"activerss_items"`
	IP4                   string            `json:"ip4"`
	LastStep              string            `json:"laststep"`
	ManageText            string            `json:"managetext"`
	Schedule              string            `json:"schedule"`
	ScheduledDate         *strfmt.DateTime  `json:"scheduleddate"`
	WaitPreview           string            `json:"waitpreview"`
	DeleteStamp           *strfmt.DateTime  `json:"deletestamp"`
	ReplySys              string            `json:"replysys"`
	Links                 map[string]string `json:"links"`
	ID                    string            `json:"id"`
	User                  string            `json:"user"`
	Automation            *string           `json:"automation"`
}

// ListResponse is the response for GET /api/3/campaigns
type ListResponse struct {
	Campaigns []CampaignResource `json:"campaigns"`
	Meta      ListMeta           `json:"meta"`
}

// ListMeta describes a returned page. Total is a string on the wire.
type ListMeta struct {
	Total     string    `json:"total"`
	PageInput PageInput `json:"page_input"`
}

// PageInput echoes the effective pagination and sort of a list request
type PageInput struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Sort   string `json:"sort,omitempty"`
}

// CampaignResponse is the response for GET /api/3/campaigns/{campaignID}
type CampaignResponse struct {
	Campaign CampaignResource `json:"campaign"`
}

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp strfmt.DateTime `json:"timestamp"`
	Campaigns int             `json:"campaigns"`
	Uptime    string          `json:"uptime"`
}

// ErrorResponse is the error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// NewListResponse converts a query page into its wire form
func NewListResponse(page campaign.Page) ListResponse {
	campaigns := make([]CampaignResource, len(page.Campaigns))
	for i, c := range page.Campaigns {
		campaigns[i] = NewCampaignResource(c)
	}

	return ListResponse{
		Campaigns: campaigns,
		Meta: ListMeta{
			Total: strconv.Itoa(page.Meta.Total),
			PageInput: PageInput{
				Limit:  page.Meta.Limit,
				Offset: page.Meta.Offset,
				Sort:   page.Meta.Sort,
			},
		},
	}
}

// NewCampaignResource converts a campaign into its wire form
func NewCampaignResource(c campaign.Campaign) CampaignResource {
	m, refs, set := c.Metrics, c.Refs, c.Settings
	id := strconv.FormatInt(c.ID, 10)

	res := CampaignResource{
		Type:                  string(c.Type),
		UserID:                itoa(refs.UserID),
		SegmentID:             itoa(refs.SegmentID),
		BounceID:              itoa(refs.BounceID),
		RealCID:               itoa(refs.RealCID),
		SendID:                itoa(refs.SendID),
		ThreadID:              itoa(refs.ThreadID),
		SeriesID:              itoa(refs.SeriesID),
		FormID:                itoa(refs.FormID),
		BaseTemplateID:        itoa(refs.BaseTemplateID),
		BaseMessageID:         itoa(refs.BaseMessageID),
		AddressID:             itoa(refs.AddressID),
		Source:                c.Source,
		Name:                  c.Name,
		CDate:                 dateTime(c.CreatedAt),
		MDate:                 dateTime(c.UpdatedAt),
		SDate:                 nullableDateTime(c.SendDate),
		LDate:                 nullableDateTime(c.LastSendDate),
		SendAmt:               itoa(m.EmailsSent),
		TotalAmt:              itoa(m.EmailsSent),
		Opens:                 itoa(m.Opens),
		UniqueOpens:           itoa(m.UniqueOpens),
		LinkClicks:            itoa(m.LinkClicks),
		UniqueLinkClicks:      itoa(m.UniqueLinkClicks),
		SubscriberClicks:      itoa(m.SubscriberClicks),
		Forwards:              itoa(m.Forwards),
		UniqueForwards:        itoa(m.UniqueForwards),
		HardBounces:           itoa(m.HardBounces),
		SoftBounces:           itoa(m.SoftBounces),
		Unsubscribes:          itoa(m.Unsubscribes),
		UnsubReasons:          set.UnsubReasons,
		Updates:               itoa(m.Updates),
		SocialShares:          itoa(m.SocialShares),
		Replies:               itoa(m.Replies),
		UniqueReplies:         itoa(m.UniqueReplies),
		Status:                string(c.Status),
		Public:                flag(set.Public),
		MailTransfer:          set.MailTransfer,
		MailSend:              set.MailSend,
		MailCleanup:           set.MailCleanup,
		MailerLogFile:         set.MailerLogFile,
		TrackLinks:            set.TrackLinks,
		TrackLinksAnalytics:   set.TrackLinksAnalytics,
		TrackReads:            flag(set.TrackReads),
		TrackReadsAnalytics:   flag(set.TrackReadsAnalytics),
		AnalyticsCampaignName: set.AnalyticsCampaignName,
		Tweet:                 itoa(m.Tweets),
		Facebook:              itoa(m.FacebookShares),
		Survey:                itoa(m.Surveys),
		EmbedImages:           flag(set.EmbedImages),
		HTMLUnsub:             flag(set.HTMLUnsub),
		TextUnsub:             flag(set.TextUnsub),
		HTMLUnsubData:         set.HTMLUnsubData,
		TextUnsubData:         set.TextUnsubData,
		Recurring:             flag(set.Recurring),
		WillRecur:             flag(set.WillRecur),
		SplitType:             set.SplitType,
		SplitContent:          set.SplitContent,
		SplitOffset:           itoa(set.SplitOffset),
		SplitOffsetType:       set.SplitOffsetType,
		SplitWinnerMessageID:  itoa(refs.SplitWinnerMessageID),
		SplitWinnerAwaiting:   flag(set.SplitWinnerAwaiting),
		ResponderOffset:       itoa(set.ResponderOffset),
		ResponderType:         set.ResponderType,
		ResponderExisting:     flag(set.ResponderExisting),
		ReminderField:         set.ReminderField,
		ReminderFormat:        set.ReminderFormat,
		ReminderType:          set.ReminderType,
		ReminderOffset:        itoa(set.ReminderOffset),
		ReminderOffsetType:    set.ReminderOffsetType,
		ReminderOffsetSign:    set.ReminderOffsetSign,
		ReminderLastCronRun:   nullableDateTime(set.ReminderLastCronRun),
		ActiveRSSInterval:     itoa(set.ActiveRSSInterval),
		ActiveRSSURL:          set.ActiveRSSURL,
		ActiveRSSItems:        itoa(set.ActiveRSSItems),
		IP4:                   set.IP4,
		LastStep:              itoa(set.LastStep),
		ManageText:            flag(set.ManageText),
		Schedule:              flag(set.Schedule),
		ScheduledDate:         nullableDateTime(set.ScheduledDate),
		WaitPreview:           flag(set.WaitPreview),
		DeleteStamp:           nullableDateTime(set.DeleteStamp),
		ReplySys:              flag(set.ReplySys),
		Links:                 c.Links(),
		ID:                    id,
		User:                  itoa(refs.User),
	}

	if c.Automation != nil {
		automation := strconv.FormatInt(*c.Automation, 10)
		res.Automation = &automation
	}

	return res
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func dateTime(t time.Time) strfmt.DateTime {
	return strfmt.DateTime(t.UTC())
}

func nullableDateTime(t *time.Time) *strfmt.DateTime {
	if t == nil {
		return nil
	}
	dt := dateTime(*t)
	return &dt
}
