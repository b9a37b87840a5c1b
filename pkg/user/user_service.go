package user

import (
	"context"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		GetUsers(ctx context.Context, page, limit int, userID string) (domain.UserListResponse, error)
		GetUser(ctx context.Context, targetID string, userID string) (domain.User, error)
		GetMe(ctx context.Context, userID string) (domain.User, error)
		Subscribe(ctx context.Context, authorID string, userID string, recipesLimit int) (domain.Subscription, error)
		Unsubscribe(ctx context.Context, authorID string, userID string) error
		GetSubscriptions(ctx context.Context, page, limit int, userID string, recipesLimit int) (domain.SubscriptionListResponse, error)
	}

	userService struct {
		userRepository         UserRepository
		subscriptionRepository relation.SubscriptionRepository
		recipeRepository       recipe.RecipeRepository
	}
)

func NewUserService(
	userRepository UserRepository,
	subscriptionRepository relation.SubscriptionRepository,
	recipeRepository recipe.RecipeRepository,
) UserService {
	return &userService{
		userRepository:         userRepository,
		subscriptionRepository: subscriptionRepository,
		recipeRepository:       recipeRepository,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepository.EmailExists(ctx, email)
	if err != nil {
		return domain.RegisterResponse{}, err
	}
	if exists {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyUsed
	}

	exists, err = s.userRepository.UsernameExists(ctx, req.Username)
	if err != nil {
		return domain.RegisterResponse{}, err
	}
	if exists {
		return domain.RegisterResponse{}, domain.ErrUsernameAlreadyUsed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.RegisterResponse{}, err
	}

	return domain.RegisterResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) GetUsers(ctx context.Context, page, limit int, userID string) (domain.UserListResponse, error) {
	users, err := s.userRepository.GetUsers(ctx)
	if err != nil {
		return domain.UserListResponse{}, err
	}

	total := len(users)
	start, end := utils.PageBounds(total, page, limit)
	users = users[start:end]

	subscribed, err := s.subscribedTo(ctx, userID, users)
	if err != nil {
		return domain.UserListResponse{}, err
	}

	results := make([]domain.User, 0, len(users))
	for _, u := range users {
		results = append(results, toUser(u, subscribed[u.ID]))
	}
	return domain.UserListResponse{Count: total, Results: results}, nil
}

func (s *userService) GetUser(ctx context.Context, targetID string, userID string) (domain.User, error) {
	target, err := s.findUser(ctx, targetID)
	if err != nil {
		return domain.User{}, err
	}

	subscribed, err := s.subscribedTo(ctx, userID, []*entities.User{target})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(target, subscribed[target.ID]), nil
}

func (s *userService) GetMe(ctx context.Context, userID string) (domain.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.User{}, domain.ErrTokenInvalid
	}

	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return toUser(user, false), nil
}

func (s *userService) Subscribe(ctx context.Context, authorID string, userID string, recipesLimit int) (domain.Subscription, error) {
	follower, err := uuid.Parse(userID)
	if err != nil {
		return domain.Subscription{}, domain.ErrTokenInvalid
	}
	author, err := s.findUser(ctx, authorID)
	if err != nil {
		return domain.Subscription{}, err
	}

	if err := s.subscriptionRepository.Subscribe(ctx, follower, author.ID); err != nil {
		return domain.Subscription{}, err
	}
	return s.subscriptionView(ctx, author, recipesLimit)
}

func (s *userService) Unsubscribe(ctx context.Context, authorID string, userID string) error {
	follower, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrTokenInvalid
	}
	author, err := s.findUser(ctx, authorID)
	if err != nil {
		return err
	}
	return s.subscriptionRepository.Unsubscribe(ctx, follower, author.ID)
}

func (s *userService) GetSubscriptions(ctx context.Context, page, limit int, userID string, recipesLimit int) (domain.SubscriptionListResponse, error) {
	follower, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubscriptionListResponse{}, domain.ErrTokenInvalid
	}

	authors, err := s.subscriptionRepository.GetAuthors(ctx, follower)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}

	total := len(authors)
	start, end := utils.PageBounds(total, page, limit)

	results := make([]domain.Subscription, 0, end-start)
	for _, a := range authors[start:end] {
		view, err := s.subscriptionView(ctx, a, recipesLimit)
		if err != nil {
			return domain.SubscriptionListResponse{}, err
		}
		results = append(results, view)
	}
	return domain.SubscriptionListResponse{Count: total, Results: results}, nil
}

// subscriptionView renders a followed author with their newest recipes, keeping
// at most recipesLimit of them when it is positive.
func (s *userService) subscriptionView(ctx context.Context, author *entities.User, recipesLimit int) (domain.Subscription, error) {
	recipes, err := s.recipeRepository.GetAuthorRecipes(ctx, author.ID, recipesLimit)
	if err != nil {
		return domain.Subscription{}, err
	}
	count, err := s.recipeRepository.CountAuthorRecipes(ctx, author.ID)
	if err != nil {
		return domain.Subscription{}, err
	}

	shorts := make([]domain.RecipeShort, 0, len(recipes))
	for _, r := range recipes {
		shorts = append(shorts, recipe.ShortView(r))
	}
	return domain.Subscription{
		User:         toUser(author, true),
		Recipes:      shorts,
		RecipesCount: count,
	}, nil
}

func (s *userService) findUser(ctx context.Context, rawID string) (*entities.User, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return s.userRepository.GetUserByID(ctx, id)
}

// subscribedTo reports which of users the requester follows. Anonymous
// requesters follow nobody.
func (s *userService) subscribedTo(ctx context.Context, userID string, users []*entities.User) (map[uuid.UUID]bool, error) {
	if userID == "" {
		return map[uuid.UUID]bool{}, nil
	}
	requester, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return s.subscriptionRepository.SubscribedAuthors(ctx, requester, ids)
}

func toUser(u *entities.User, subscribed bool) domain.User {
	return domain.User{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}
