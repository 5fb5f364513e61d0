package dto

type CreateToiletRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Address     string  `json:"address" validate:"max=500"`
	Latitude    float64 `json:"latitude" validate:"required,latitude"`
	Longitude   float64 `json:"longitude" validate:"required,longitude"`
	Description string  `json:"description" validate:"max=1000"`
	IsFree      bool    `json:"is_free"`
	Accessible  bool    `json:"accessible"`
}

type CreateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Body   string `json:"body" validate:"max=2000"`
}

type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,max=1000"`
}

type VoteRequest struct {
	Value int `json:"value" validate:"required,oneof=1 -1"`
}
