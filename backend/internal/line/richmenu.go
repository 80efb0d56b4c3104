package line

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/logger"
)

type RichMenuAPI interface {
	ListRichMenus(ctx context.Context) ([]*linebot.RichMenuResponse, error)
	CreateRichMenu(ctx context.Context, menu linebot.RichMenu) (string, error)
	UploadRichMenuImage(ctx context.Context, richMenuID, imagePath string) error
	SetDefaultRichMenu(ctx context.Context, richMenuID string) error
}

func (c *Client) ListRichMenus(ctx context.Context) ([]*linebot.RichMenuResponse, error) {
	return c.bot.GetRichMenuList().WithContext(ctx).Do()
}

func (c *Client) CreateRichMenu(ctx context.Context, menu linebot.RichMenu) (string, error) {
	res, err := c.bot.CreateRichMenu(menu).WithContext(ctx).Do()
	if err != nil {
		return "", err
	}
	return res.RichMenuID, nil
}

func (c *Client) UploadRichMenuImage(ctx context.Context, richMenuID, imagePath string) error {
	_, err := c.bot.UploadRichMenuImage(richMenuID, imagePath).WithContext(ctx).Do()
	return err
}

func (c *Client) SetDefaultRichMenu(ctx context.Context, richMenuID string) error {
	_, err := c.bot.SetDefaultRichMenu(richMenuID).WithContext(ctx).Do()
	return err
}

const (
	richMenuWidth  = 2500
	richMenuHeight = 1686
)

// MainRichMenu lays the four chat commands out as a 2x2 grid.
func MainRichMenu(name string) linebot.RichMenu {
	labels := []string{
		domain.CommandSignup, domain.CommandBoardSettings,
		domain.CommandSubboardSettings, domain.CommandDirectMessages,
	}
	w, h := richMenuWidth/2, richMenuHeight/2
	areas := make([]linebot.AreaDetail, 0, len(labels))
	for i, label := range labels {
		areas = append(areas, linebot.AreaDetail{
			Bounds: linebot.RichMenuBounds{X: (i % 2) * w, Y: (i / 2) * h, Width: w, Height: h},
			Action: linebot.RichMenuAction{Type: linebot.RichMenuActionTypeMessage, Label: label, Text: label},
		})
	}
	return linebot.RichMenu{
		Size:        linebot.RichMenuSize{Width: richMenuWidth, Height: richMenuHeight},
		Selected:    false,
		Name:        name,
		ChatBarText: "Menu",
		Areas:       areas,
	}
}

// ProvisionRichMenu makes the menu called name the default, creating it and
// uploading imagePath only when no menu of that name exists yet.
func ProvisionRichMenu(ctx context.Context, api RichMenuAPI, name, imagePath string) (string, error) {
	menus, err := api.ListRichMenus(ctx)
	if err != nil {
		return "", fmt.Errorf("list rich menus: %w", err)
	}
	for _, m := range menus {
		if m.Name == name {
			logger.Log.Info("reusing rich menu", "name", name, "id", m.RichMenuID)
			if err := api.SetDefaultRichMenu(ctx, m.RichMenuID); err != nil {
				return "", fmt.Errorf("set default rich menu: %w", err)
			}
			return m.RichMenuID, nil
		}
	}

	id, err := api.CreateRichMenu(ctx, MainRichMenu(name))
	if err != nil {
		return "", fmt.Errorf("create rich menu: %w", err)
	}
	if imagePath != "" {
		if err := api.UploadRichMenuImage(ctx, id, imagePath); err != nil {
			return "", fmt.Errorf("upload rich menu image: %w", err)
		}
	}
	if err := api.SetDefaultRichMenu(ctx, id); err != nil {
		return "", fmt.Errorf("set default rich menu: %w", err)
	}
	logger.Log.Info("created rich menu", "name", name, "id", id)
	return id, nil
}
