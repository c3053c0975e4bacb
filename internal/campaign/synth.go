package campaign

import (
	"math"
	"time"

	"github.com/foxzi/campaignmock/internal/random"
)

var (
	unsubReasons     = []string{"", "Spam complaint", "Content not relevant", "Too frequent"}
	mailStages       = []string{"queued", "processing", "completed"}
	cleanupStages    = []string{"pending", "processing", "completed"}
	trackLinkModes   = []string{"all", "none", "htmlonly"}
	analyticsModes   = []string{"all", "none"}
	offsetTypes      = []string{"before", "after", "", "relative"}
	splitTypes       = []string{"", "subject", "content", "send_time"}
	splitContents    = []string{"", "subject", "from", "content"}
	responderTypes   = []string{"", "responder", "reminder", "rss"}
	reminderFields   = []string{"", "startdate", "duedate", "custom"}
	reminderFormats  = []string{"html", "text", "both"}
	reminderChannels = []string{"", "email", "sms", "push"}
	offsetSigns      = []string{"+", "-"}
)

// Draft carries the primary values of a campaign. Nil dates are derived by
// Synthesizer.Complete.
type Draft struct {
	ID     int64
	Name   string
	Type   Type
	Status Status

	SendDate     *time.Time
	LastSendDate *time.Time
	CreatedAt    *time.Time
	UpdatedAt    *time.Time

	EmailsSent   int
	Opens        int
	Clicks       int
	Bounces      int
	Unsubscribes int
}

// Synthesizer turns draws from a random source into campaign records.
type Synthesizer struct {
	rnd       *random.Source
	reference time.Time
}

// NewSynthesizer creates a synthesizer drawing from rnd. reference is the
// generation epoch all relative dates are anchored to.
func NewSynthesizer(rnd *random.Source, reference time.Time) *Synthesizer {
	return &Synthesizer{rnd: rnd, reference: reference.UTC()}
}

// Generate synthesizes the record for the given corpus index.
func (s *Synthesizer) Generate(index int) Campaign {
	r := s.rnd

	d := Draft{
		ID:     int64(index) + IDOffset,
		Type:   Type(r.Pick(types)),
		Status: Status(r.Pick(statuses)),
	}

	d.EmailsSent = r.Int(400, 12000)
	d.Opens = r.Int(floorRatio(d.EmailsSent, 0.3), d.EmailsSent)
	d.Clicks = r.Int(floorRatio(d.Opens, 0.2), d.Opens)
	d.Bounces = r.Int(0, floorRatio(d.EmailsSent, 0.06))
	d.Unsubscribes = r.Int(0, floorRatio(d.EmailsSent, 0.03))

	window := 1000
	if r.Chance(0.1) {
		window = 28
	}
	send := r.Recent(window, s.reference)
	lastSend := r.Soon(3, send)
	d.SendDate = &send
	d.LastSendDate = &lastSend

	d.Name = r.BuzzPhrase()

	return s.Complete(d)
}

// Complete derives every secondary field of d. Derived metrics never exceed
// the primary metric they are bounded by.
func (s *Synthesizer) Complete(d Draft) Campaign {
	r := s.rnd

	c := Campaign{
		ID:     d.ID,
		Type:   d.Type,
		Status: d.Status,
		Name:   d.Name,
		Source: "api",
	}

	sent := max(d.EmailsSent, 0)
	opens := max(d.Opens, 0)
	clicks := max(d.Clicks, 0)
	bounces := max(d.Bounces, 0)

	m := &c.Metrics
	m.EmailsSent = sent
	m.Opens = opens
	m.LinkClicks = clicks
	m.HardBounces = bounces
	m.Unsubscribes = max(d.Unsubscribes, 0)
	m.UniqueOpens = r.FloorScaled(opens, 0.7, 0.95)
	m.UniqueLinkClicks = r.FloorScaled(clicks, 0.6, 0.9)
	m.SoftBounces = r.FloorScaled(bounces, 0.2, 0.6)
	m.SubscriberClicks = r.FloorScaled(clicks, 0.5, 0.85)

	forwards := r.Int(0, max(floorRatio(sent, 0.01), 5))
	m.Forwards = min(forwards, sent)
	m.UniqueForwards = min(m.Forwards, r.Int(0, forwards))
	m.Replies = r.Int(0, max(floorRatio(opens, 0.05), 10))
	m.UniqueReplies = min(m.Replies, r.Int(0, m.Replies))

	c.SendDate = d.SendDate
	c.LastSendDate = firstTime(
		func() *time.Time { return d.LastSendDate },
		func() *time.Time { return d.SendDate },
	)
	c.CreatedAt = *firstTime(
		func() *time.Time { return d.CreatedAt },
		func() *time.Time { return s.recent(120, c.SendDate) },
	)
	c.UpdatedAt = *firstTime(
		func() *time.Time { return d.UpdatedAt },
		func() *time.Time {
			return s.soon(5, firstTime(
				func() *time.Time { return c.LastSendDate },
				func() *time.Time { return &c.CreatedAt },
			))
		},
	)

	s.fillRefs(&c)
	s.fillSettings(&c, sent)

	if c.IsAutomation() {
		id := c.ID
		c.Automation = &id
	}
	return c
}

func (s *Synthesizer) fillRefs(c *Campaign) {
	r := s.rnd
	refs := &c.Refs
	refs.UserID = randomID(r)
	refs.SegmentID = randomID(r)
	refs.BounceID = randomID(r)
	refs.RealCID = randomID(r)
	refs.SendID = randomID(r)
	refs.ThreadID = randomID(r)
	if c.IsAutomation() {
		refs.SeriesID = randomID(r)
	}
	refs.FormID = randomID(r)
	refs.BaseTemplateID = randomID(r)
	refs.BaseMessageID = randomID(r)
	refs.AddressID = randomID(r)
}

// fillSettings draws the free-form fields. The order of draws is part of the
// corpus format: reordering changes every record generated after it.
func (s *Synthesizer) fillSettings(c *Campaign, sent int) {
	r := s.rnd
	st := &c.Settings
	m := &c.Metrics

	st.UnsubReasons = r.Pick(unsubReasons)
	m.Updates = r.Int(0, max(floorRatio(sent, 0.005), 1))
	m.SocialShares = r.Int(0, 50)
	st.Public = r.Bool()
	st.MailTransfer = r.Pick(mailStages)
	st.MailSend = r.Pick(mailStages)
	st.MailCleanup = r.Pick(cleanupStages)
	st.MailerLogFile = r.UUID().String() + ".log"
	st.TrackLinks = r.Pick(trackLinkModes)
	st.TrackLinksAnalytics = r.Pick(analyticsModes)
	st.TrackReads = r.Bool()
	st.TrackReadsAnalytics = r.Bool()
	st.AnalyticsCampaignName = random.Slug(c.Name)
	m.Tweets = r.Int(0, 20)
	m.FacebookShares = r.Int(0, 50)
	m.Surveys = r.Int(0, 10)
	st.EmbedImages = r.Bool()
	st.HTMLUnsub = r.Bool()
	st.TextUnsub = r.Bool()
	st.HTMLUnsubData = nullableString(r, 0.2, r.Paragraph)
	st.TextUnsubData = nullableString(r, 0.2, r.Sentence)
	st.Recurring = r.Bool()
	st.WillRecur = r.Bool()

	st.SplitType = r.Pick(splitTypes)
	st.SplitContent = r.Pick(splitContents)
	st.SplitOffset = r.Int(0, 60)
	st.SplitOffsetType = r.Pick(offsetTypes)
	c.Refs.SplitWinnerMessageID = randomID(r)
	st.SplitWinnerAwaiting = r.Bool()

	st.ResponderOffset = r.Int(0, 30)
	st.ResponderType = r.Pick(responderTypes)
	st.ResponderExisting = r.Bool()

	st.ReminderField = r.Pick(reminderFields)
	st.ReminderFormat = nullableString(r, 0.4, func() string { return r.Pick(reminderFormats) })
	st.ReminderType = r.Pick(reminderChannels)
	st.ReminderOffset = r.Int(0, 14)
	st.ReminderOffsetType = r.Pick(offsetTypes)
	st.ReminderOffsetSign = r.Pick(offsetSigns)
	st.ReminderLastCronRun = s.nullableTime(0.5, func() *time.Time { return s.recent(14, &c.UpdatedAt) })

	st.ActiveRSSInterval = r.Int(0, 48)
	st.ActiveRSSURL = nullableString(r, 0.3, r.URL)
	st.ActiveRSSItems = r.Int(0, 25)

	st.IP4 = r.IPv4()
	st.LastStep = r.Int(0, 20)
	st.ManageText = r.Bool()
	st.Schedule = r.Bool()
	st.ScheduledDate = s.nullableTime(0.5, func() *time.Time { return s.soon(7, c.SendDate) })
	st.WaitPreview = r.Bool()
	st.DeleteStamp = s.nullableTime(0.5, func() *time.Time {
		t := r.Past(1, s.anchor(c.SendDate))
		return &t
	})
	st.ReplySys = r.Bool()

	c.Refs.User = randomID(r)
}

// anchor returns *t, or the reference date when t is nil.
func (s *Synthesizer) anchor(t *time.Time) time.Time {
	if t == nil {
		return s.reference
	}
	return *t
}

func (s *Synthesizer) recent(days int, ref *time.Time) *time.Time {
	t := s.rnd.Recent(days, s.anchor(ref))
	return &t
}

func (s *Synthesizer) soon(days int, ref *time.Time) *time.Time {
	t := s.rnd.Soon(days, s.anchor(ref))
	return &t
}

func (s *Synthesizer) nullableTime(chance float64, gen func() *time.Time) *time.Time {
	if !s.rnd.Chance(chance) {
		return nil
	}
	return gen()
}

// firstTime evaluates providers in order and returns the first non-nil
// result. Providers after the first hit are not called, so they may draw.
func firstTime(providers ...func() *time.Time) *time.Time {
	for _, p := range providers {
		if t := p(); t != nil {
			return t
		}
	}
	return nil
}

func nullableString(r *random.Source, chance float64, gen func() string) *string {
	if !r.Chance(chance) {
		return nil
	}
	v := gen()
	return &v
}

func randomID(r *random.Source) int {
	return r.Int(1, 999999)
}

// floorRatio returns floor(n * ratio), never negative.
func floorRatio(n int, ratio float64) int {
	return max(int(math.Floor(float64(n)*ratio)), 0)
}
