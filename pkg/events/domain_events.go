package events

import "time"

const (
	TypeOnboardingCompleted = "ONBOARDING_COMPLETED"
	TypeKeywordsSubmitted   = "KEYWORDS_SUBMITTED"
	TypeAdFinalized         = "AD_FINALIZED"
	TypeAdDeleted           = "AD_DELETED"
	TypeCampaignCreated     = "CAMPAIGN_CREATED"
	TypeAdsCreated          = "ADS_CREATED"
)

func NewOnboardingCompletedEvent(guildID, businessName, websiteLink string) Event {
	return BaseEvent{
		Type: TypeOnboardingCompleted,
		Data: map[string]interface{}{
			"guild_id":      guildID,
			"business_name": businessName,
			"website_link":  websiteLink,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewKeywordsSubmittedEvent(businessName string, count int) Event {
	return BaseEvent{
		Type: TypeKeywordsSubmitted,
		Data: map[string]interface{}{
			"business_name": businessName,
			"count":         count,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewAdFinalizedEvent(businessName string, index int) Event {
	return BaseEvent{
		Type: TypeAdFinalized,
		Data: map[string]interface{}{
			"business_name": businessName,
			"index":         index,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewAdDeletedEvent(businessName string, index int) Event {
	return BaseEvent{
		Type: TypeAdDeleted,
		Data: map[string]interface{}{
			"business_name": businessName,
			"index":         index,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewCampaignCreatedEvent(businessName, campaignName string) Event {
	return BaseEvent{
		Type: TypeCampaignCreated,
		Data: map[string]interface{}{
			"business_name": businessName,
			"campaign_name": campaignName,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewAdsCreatedEvent(businessName string, succeeded, attempted int) Event {
	return BaseEvent{
		Type: TypeAdsCreated,
		Data: map[string]interface{}{
			"business_name": businessName,
			"succeeded":     succeeded,
			"attempted":     attempted,
		},
		OccurredAt: time.Now().UTC(),
	}
}
