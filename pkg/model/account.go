package model

type AccountProfile struct {
	ID                   string                `json:"id"`
	Username             string                `json:"username"`
	FirstName            string                `json:"first_name"`
	LastName             string                `json:"last_name"`
	Email                string                `json:"email"`
	Phone                string                `json:"phone"`
	AgentCompany         string                `json:"agent_company"`
	KakaoTalkID          string                `json:"kakao_talk_id,omitempty"`
	NotificationSettings []NotificationSetting `json:"notification_settings"`
}

func (p AccountProfile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
