package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/snacktrack/snacktrack-api/httpx"
)

type LeaderboardEntry struct {
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name"`
	Avatar        string  `json:"avatar"`
	Rank          int     `json:"rank"`
	Points        int     `json:"points"`
	Streak        int     `json:"streak"`
	Adherence     float64 `json:"adherence"`
	Change        int     `json:"change"`
	IsCurrentUser bool    `json:"is_current_user"`
}

type LeaderboardResponse struct {
	Period            string             `json:"period"`
	Entries           []LeaderboardEntry `json:"entries"`
	UserRank          *LeaderboardEntry  `json:"user_rank"`
	TotalParticipants int                `json:"total_participants"`
}

type PointsBreakdown struct {
	Action      string `json:"action"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

type InviteResponse struct {
	Message     string `json:"message"`
	BonusPoints int    `json:"bonus_points"`
	Note        string `json:"note"`
}

type LeaderboardQuery struct {
	Period string `form:"period" json:"period"`
	Limit  int    `form:"limit" json:"limit"`
	UserID string `form:"user_id" json:"user_id"`
}

func (q LeaderboardQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Limit, validation.Min(1), validation.Max(100)),
	)
}

type FriendsQuery struct {
	UserID string `form:"user_id" json:"user_id"`
	Limit  int    `form:"limit" json:"limit"`
}

func (q FriendsQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Limit, validation.Min(1), validation.Max(50)),
	)
}

type InviteRequest struct {
	Email  string `form:"email" json:"email"`
	UserID string `form:"user_id" json:"user_id"`
}

func (r InviteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
	)
}

var (
	leaderboardEntries = []LeaderboardEntry{
		{UserID: "user_1", UserName: "Emma Wilson", Avatar: "👩‍🦰", Rank: 1, Points: 2450, Streak: 45, Adherence: 98, Change: 0},
		{UserID: "user_2", UserName: "James Chen", Avatar: "👨", Rank: 2, Points: 2280, Streak: 38, Adherence: 95, Change: 1},
		{UserID: "user_3", UserName: "Sofia Rodriguez", Avatar: "👩", Rank: 3, Points: 2150, Streak: 42, Adherence: 92, Change: -1},
		{UserID: DemoProfileID, UserName: "You", Avatar: "🙂", Rank: 4, Points: 1820, Streak: 18, Adherence: 88, Change: 2, IsCurrentUser: true},
		{UserID: "user_5", UserName: "Alex Thompson", Avatar: "🧔", Rank: 5, Points: 1650, Streak: 28, Adherence: 85, Change: -1},
		{UserID: "user_6", UserName: "Priya Patel", Avatar: "👩‍🦱", Rank: 6, Points: 1480, Streak: 22, Adherence: 82, Change: 0},
		{UserID: "user_7", UserName: "Marcus Johnson", Avatar: "👨‍🦱", Rank: 7, Points: 1320, Streak: 15, Adherence: 80, Change: 3},
		{UserID: "user_8", UserName: "Lisa Wang", Avatar: "👧", Rank: 8, Points: 1200, Streak: 19, Adherence: 78, Change: -2},
		{UserID: "user_9", UserName: "David Kim", Avatar: "👨‍🦰", Rank: 9, Points: 980, Streak: 12, Adherence: 75, Change: 0},
		{UserID: "user_10", UserName: "Sarah Miller", Avatar: "👱‍♀️", Rank: 10, Points: 850, Streak: 8, Adherence: 72, Change: 1},
	}

	friendEntries = []LeaderboardEntry{
		{UserID: DemoProfileID, UserName: "You", Avatar: "🙂", Rank: 1, Points: 1820, Streak: 18, Adherence: 88, Change: 0, IsCurrentUser: true},
		{UserID: "friend_1", UserName: "Alex Thompson", Avatar: "🧔", Rank: 2, Points: 1650, Streak: 28, Adherence: 85, Change: 0},
		{UserID: "friend_2", UserName: "Priya Patel", Avatar: "👩‍🦱", Rank: 3, Points: 1480, Streak: 22, Adherence: 82, Change: 1},
	}

	pointsSystem = []PointsBreakdown{
		{Action: "complete_meal", Points: 10, Description: "Complete a planned meal"},
		{Action: "daily_streak", Points: 5, Description: "Bonus for each day of streak"},
		{Action: "hydration_goal", Points: 15, Description: "Reach daily water intake goal"},
		{Action: "perfect_day", Points: 50, Description: "Complete all meals and goals for a day"},
		{Action: "weekly_goal", Points: 100, Description: "Meet weekly calorie and macro targets"},
		{Action: "weight_log", Points: 5, Description: "Log your weight"},
	}
)

const inviteBonusPoints = 50

func registerLeaderboard(rg gin.IRouter) {
	root(rg, http.MethodGet, httpx.Wrap(leaderboard))
	rg.GET("/friends", httpx.Wrap(friendsLeaderboard))
	rg.GET("/points-system", httpx.Wrap(func(*gin.Context, *Empty) (*[]PointsBreakdown, error) {
		return &pointsSystem, nil
	}))
	rg.POST("/invite", httpx.Wrap(invite))
}

func leaderboard(c *gin.Context, q *LeaderboardQuery) (*LeaderboardResponse, error) {
	period := q.Period
	if period == "" {
		period = "month"
	}
	limit := q.Limit
	if limit == 0 {
		limit = 10
	}
	userID := userIDOr(c, q.UserID)

	resp := &LeaderboardResponse{
		Period:            period,
		Entries:           leaderboardEntries[:min(limit, len(leaderboardEntries))],
		TotalParticipants: 1247,
	}
	for i := range leaderboardEntries {
		if leaderboardEntries[i].UserID == userID {
			e := leaderboardEntries[i]
			resp.UserRank = &e
			break
		}
	}
	return resp, nil
}

func friendsLeaderboard(_ *gin.Context, _ *FriendsQuery) (*LeaderboardResponse, error) {
	me := friendEntries[0]
	return &LeaderboardResponse{
		Period:            "friends",
		Entries:           friendEntries,
		UserRank:          &me,
		TotalParticipants: len(friendEntries),
	}, nil
}

func invite(_ *gin.Context, req *InviteRequest) (*InviteResponse, error) {
	return &InviteResponse{
		Message:     "Invitation sent to " + req.Email,
		BonusPoints: inviteBonusPoints,
		Note:        fmt.Sprintf("You'll earn %d bonus points when your friend joins!", inviteBonusPoints),
	}, nil
}
