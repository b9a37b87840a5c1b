package domain

import "fmt"

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessGetUsers         = "success get users"
	MessageSuccessGetUser          = "success get user"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"
	MessageSuccessGetMe            = "success get current user"

	MessageFailedRegister         = "failed to register user"
	MessageFailedGetUsers         = "failed to get users"
	MessageFailedGetUser          = "failed to get user"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"
	MessageFailedGetMe            = "failed to get current user"

	ErrUserNotFound         = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrEmailAlreadyUsed     = fmt.Errorf("%w: email is already registered", ErrAlreadyExists)
	ErrUsernameAlreadyUsed  = fmt.Errorf("%w: username is already taken", ErrAlreadyExists)
	ErrUserAlreadyExists    = fmt.Errorf("%w: user already exists", ErrAlreadyExists)
	ErrSelfSubscription     = fmt.Errorf("%w: cannot subscribe to yourself", ErrAlreadyExists)
	ErrAlreadySubscribed    = fmt.Errorf("%w: already subscribed to this author", ErrAlreadyExists)
	ErrSubscriptionNotFound = fmt.Errorf("%w: not subscribed to this author", ErrNotFound)
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=150"`
	}

	RegisterResponse struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	User struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	// Subscription is the author view returned for followed users.
	Subscription struct {
		User
		Recipes      []RecipeShort `json:"recipes"`
		RecipesCount int64         `json:"recipes_count"`
	}

	UserListResponse struct {
		Count   int    `json:"count"`
		Results []User `json:"results"`
	}

	SubscriptionListResponse struct {
		Count   int            `json:"count"`
		Results []Subscription `json:"results"`
	}
)
