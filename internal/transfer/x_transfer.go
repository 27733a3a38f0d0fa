package transfer

type XMediaUploadResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
	// v1.1 style reply still returned by some endpoints
	MediaIDString string `json:"media_id_string"`
}

type XTweetRequest struct {
	Text  string       `json:"text"`
	Media *XTweetMedia `json:"media,omitempty"`
	Reply *XTweetReply `json:"reply,omitempty"`
}

type XTweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type XTweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type XTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}
