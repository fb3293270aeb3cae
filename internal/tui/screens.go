package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stockbox/stockbox-admin/pkg/client"
	"github.com/stockbox/stockbox-admin/pkg/domain"
)

// resourceSpecs wires each CRUD screen to the API client.
func resourceSpecs(c *client.Client, now func() time.Time) map[view]resourceSpec {
	return map[view]resourceSpec{
		viewBlogs:      blogSpec(c, now),
		viewCategories: categorySpec(c),
		viewJobs:       jobSpec(c),
		viewIPOs:       ipoSpec(c),
		viewListings:   listingSpec(c),
		viewYearly:     yearlySpec(c),
		viewEmployees:  employeeSpec(c),
		viewPDFs:       pdfSpec(c),
		viewCarousel:   carouselSpec(c),
		viewEvent:      eventSpec(c),
		viewUsers:      userSpec(c, now),
	}
}

func blogSpec(c *client.Client, now func() time.Time) resourceSpec {
	input := func(v map[string]string) (client.BlogInput, error) {
		in := client.BlogInput{
			Title:      v["title"],
			Slug:       v["slug"],
			Category:   v["category"],
			Content:    v["content"],
			Author:     v["author"],
			ThumbImage: v["thumbImage"],
		}
		return in, validateInput(in)
	}
	return resourceSpec{
		title: "Blogs",
		columns: []column{
			{"title", 40}, {"category", 16}, {"author", 16}, {"created", 10},
		},
		load: func(ctx context.Context, q query) (listResult, error) {
			page, err := c.ListBlogs(ctx, q.page)
			if err != nil {
				return listResult{}, err
			}
			rows := make([]row, 0, len(page.Blogs))
			for _, b := range page.Blogs {
				rows = append(rows, row{
					id:    b.ID,
					cells: []string{b.Title, b.Category, b.Author, formatTime(b.CreatedAt, now())},
					link:  b.ThumbImage,
				})
			}
			return listResult{rows: rows, pages: page.Paginate.Pages()}, nil
		},
		remove: func(ctx context.Context, _ query, id string) error {
			return c.DeleteBlog(ctx, id)
		},
		fields: []formField{
			{key: "title", label: "title", required: true},
			{key: "slug", label: "slug", required: true},
			{key: "category", label: "category", required: true},
			{key: "author", label: "author", required: true},
			{key: "content", label: "content", required: true, hint: "HTML or plain text"},
			{key: "thumbImage", label: "thumbnail", hint: "path to image file"},
		},
		create: func(ctx context.Context, _ query, v map[string]string) error {
			in, err := input(v)
			if err != nil {
				return err
			}
			return c.CreateBlog(ctx, in)
		},
		update: func(ctx context.Context, _ query, id string, v map[string]string) error {
			in, err := input(v)
			if err != nil {
				return err
			}
			return c.UpdateBlog(ctx, id, in)
		},
		fetch: func(ctx context.Context, _ query, id string) (map[string]string, error) {
			b, err := c.GetBlog(ctx, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"title": b.Title, "slug": b.Slug, "category": b.Category,
				"content": b.Content, "author": b.Author,
			}, nil
		},
		actions: []action{
			{key: "P", label: "publish", run: func(ctx context.Context, _ query, _ row) (string, error) {
				return "blogs published", c.PublishBlogs(ctx)
			}},
			{key: "R", label: "fetch reviews", run: func(ctx context.Context, _ query, _ row) (string, error) {
				return "reviews fetched", c.FetchReviews(ctx)
			}},
		},
		empty: "no blogs yet, press n to write one",
	}
}

func categorySpec(c *client.Client) resourceSpec {
	return resourceSpec{
		title:   "Categories",
		columns: []column{{"name", 40}},
		load: func(ctx context.Context, _ query) (listResult, error) {
			cats, err := c.ListCategories(ctx)
			if err != nil {
				return listResult{}, err
			}
			rows := make([]row, 0, len(cats))
			for _, cat := range cats {
				rows = append(rows, row{id: cat.ID, cells: []string{cat.Name}, values: map[string]string{"name": cat.Name}})
			}
			return listResult{rows: rows}, nil
		},
		remove: func(ctx context.Context, _ query, id string) error {
			return c.DeleteCategory(ctx, id)
		},
		fields: []formField{{key: "name", label: "name", required: true}},
		create: func(ctx context.Context, _ query, v map[string]string) error {
			return c.CreateCategory(ctx, v["name"])
		},
		update: func(ctx context.Context, _ query, id string, v map[string]string) error {
			return c.UpdateCategory(ctx, id, v["name"])
		},
	}
}

func jobSpec(c *client.Client) resourceSpec {
	return resourceSpec{
		title:   "Jobs",
		columns: []column{{"title", 30}, {"salary", 14}, {"description", 40}},
		load: func(ctx context.Context, _ query) (listResult, error) {
			jobs, err := c.ListJobs(ctx)
			if err != nil {
				return listResult{}, err
			}
			rows := make([]row, 0, len(jobs))
			for _, j := range jobs {
				rows = append(rows, row{
					id:    j.ID,
					cells: []string{j.Title, j.Salary, j.Description},
					link:  j.GoogleFormLink,
				})
			}
			return listResult{rows: rows}, nil
		},
		remove: func(ctx context.Context, _ query, id string) error {
			return c.DeleteJob(ctx, id)
		},
		fields: []formField{
			{key: "title", label: "title", required: true},
			{key: "description", label: "description", required: true},
			{key: "salary", label: "salary"},
			{key: "googleFormLink", label: "form link", hint: "https://forms.gle/..."},
		},
		create: func(ctx context.Context, _ query, v map[string]string) error {
			in := client.JobInput{
				Title:          v["title"],
				Description:    v["description"],
				Salary:         v["salary"],
				GoogleFormLink: v["googleFormLink"],
			}
			if err := validateInput(in); err != nil {
				return err
			}
			return c.CreateJob(ctx, in)
		},
		empty: "no open positions",
	}
}

func ipoSpec(c *client.Client) resourceSpec {
	ipo := func(v map[string]string) domain.IPO {
		return domain.IPO{
			Company:       v["company"],
			OpeningDate:   v["openingDate"],
			ClosingDate:   v["closingDate"],
			ListingAt:     v["listingAt"],
			ListingDate:   v["listingDate"],
			IssuePrice:    v["issuePrice"],
			IssueAmountCr: v["issueAmountCr"],
			BlogLink:      v["blogLink"],
		}
	}
	return resourceSpec{
		title: "IPOs",
		columns: []column{
			{"company", 28}, {"opens", 12}, {"closes", 12}, {"price", 12}, {"listing at", 10},
		},
		load: func(ctx context.Context, _ query) (listResult, error) {
			ipos, err := c.ListIPOs(ctx)
			if err != nil {
				return listResult{}, err
			}
			rows := make([]row, 0, len(ipos))
			for _, i := range ipos {
				rows = append(rows, row{
					id:    i.ID,
					cells: []string{i.Company, i.OpeningDate, i.ClosingDate, i.IssuePrice, i.ListingAt},
					link:  i.BlogLink,
					values: map[string]string{
						"company": i.Company, "openingDate": i.OpeningDate, "closingDate": i.ClosingDate,
						"listingAt": i.ListingAt, "listingDate": i.ListingDate, "issuePrice": i.IssuePrice,
						"issueAmountCr": i.IssueAmountCr, "blogLink": i.BlogLink,
					},
				})
			}
			return listResult{rows: rows}, nil
		},
		remove: func(ctx context.Context, _ query, id string) error {
			return c.DeleteIPO(ctx, id)
		},
		fields: []formField{
			{key: "company", label: "company", required: true},
			{key: "openingDate", label: "opening date", required: true, hint: "YYYY-MM-DD"},
			{key: "closingDate", label: "closing date", required: true, hint: "YYYY-MM-DD"},
			{key: "listingAt", label: "listing at", hint: "NSE, BSE"},
			{key: "listingDate", label: "listing date", hint: "YYYY-MM-DD"},
			{key: "issuePrice", label: "issue price"},
			{key: "issueAmountCr", label: "issue amount (cr)"},
			{key: "blogLink", label: "blog link"},
		},
		create: func(ctx context.Context, _ query, v map[string]string) error {
			return c.CreateIPO(ctx, ipo(v))
		},
		update: func(ctx context.Context, _ query, id string, v map[string]string) error {
			return c.UpdateIPO(ctx, id, ipo(v))
		},
		empty: "no IPOs listed",
	}
}

func employeeSpec(c *client.Client) resourceSpec {
	input := func(v map[string]string) (client.EmployeeInput, error) {
		in := client.EmployeeInput{
			Name:        v["name"],
			Designation: v["designation"],
			Description: v["description"],
			Image:       v["image"],
		}
		return in, validateInput(in)
	}
	return resourceSpec{
		title:   "Employees",
		columns: []column{{"name", 24}, {"designation", 20}, {"about", 40}},
		load: func(ctx context.Context, _ query) (listResult, error) {
			emps, err := c.ListEmployees(ctx)
			if err != nil {
				return listResult{}, err
			}
			rows := make([]row, 0, len(emps))
			for _, e := range emps {
				rows = append(rows, row{
					id:    e.ID,
					cells: []string{e.Name, e.Designation, e.Description},
					link:  e.Image,
				})
			}
			return listResult{rows: rows}, nil
		},
		remove: func(ctx context.Context, _ query, id string) error {
			return c.DeleteEmployee(ctx, id)
		},
		fields: []formField{
			{key: "name", label: "name", required: true},
			{key: "designation", label: "designation", required: true},
			{key: "description", label: "description"},
			{key: "image", label: "photo", hint: "path to image file"},
		},
		create: func(ctx context.Context, _ query, v map[string]string) error {
			in, err := input(v)
			if err != nil {
				return err
			}
			return c.CreateEmployee(ctx, in)
		},
		update: func(ctx context.Context, _ query, id string, v map[string]string) error {
			in, err := input(v)
			if err != nil {
				return err
			}
			return c.UpdateEmployee(ctx, id, in)
		},
		fetch: func(ctx context.Context, _ query, id string) (map[string]string, error) {
			e, err := c.GetEmployee(ctx, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"name": e.Name, "designation": e.Designation, "description": e.Description,
			}, nil
		},
	}
}

// listingSpec manages the upcoming-IPO and listed-today name boards. On the
// upcoming board each name is its own row, so d removes a single name and D
// the entry it was posted in.
func listingSpec(c *client.Client) resourceSpec {
	kind := func(q query) domain.ListingKind {
		return domain.ListingKind(q.variant)
	}
	return resourceSpec{
		title:    "Listings",
		columns:  []column{{"company", 48}, {"entry", 26}},
		variants: []string{domain.ListingUpcoming.String(), domain.ListingToday.String()},
		load: func(ctx context.Context, q query) (listResult, error) {
			entries, err := c.ListListings(ctx, kind(q))
			if err != nil {
				return listResult{}, err
			}
			var rows []row
			for _, e := range entries {
				entry := map[string]string{"entry": e.ID}
				if kind(q) == domain.ListingToday {
					rows = append(rows, row{id: e.ID, cells: []string{strings.Join(e.Names, ", "), e.ID}, values: entry})
					continue
				}
				for _, name := range e.Names {
					rows = append(rows, row{id: name, cells: []string{name, e.ID}, values: entry})
				}
			}
			return listResult{rows: rows}, nil
		},
		remove: func(ctx context.Context, q query, id string) error {
			if kind(q) == domain.ListingToday {
				return c.DeleteListingEntry(ctx, domain.ListingToday, id)
			}
			return c.RemoveUpcomingName(ctx, id)
		},
		fields: []formField{
			{key: "names", label: "companies", required: true, hint: "comma separated"},
		},
		create: func(ctx context.Context, q query, v map[string]string) error {
			names := splitList(v["names"])
			if len(names) == 0 {
				return fmt.Errorf("enter at least one company name")
			}
			return c.AddListings(ctx, kind(q), names...)
		},
		actions: []action{
			{key: "D", label: "delete entry", onRow: true, run: func(ctx context.Context, q query, r row) (string, error) {
				return "entry deleted", c.DeleteListingEntry(ctx, kind(q), r.values["entry"])
			}},
		},
		empty: "no companies listed, press n to add",
	}
}

var yearlyCounts = []struct{ key, label string }{
	{"carriedForward", "carried forward"},
	{"received", "received"},
	{"resolved", "resolved"},
	{"pending", "pending"},
}

// yearlyRow parses the yearly form. Counts must be whole numbers.
func yearlyRow(v map[string]string) (domain.YearlyRow, error) {
	row := domain.YearlyRow{Year: strings.TrimSpace(v["year"])}
	dst := []*int{&row.CarriedForward, &row.Received, &row.Resolved, &row.Pending}
	for i, f := range yearlyCounts {
		n, err := strconv.Atoi(strings.TrimSpace(v[f.key]))
		if err != nil {
			return row, fmt.Errorf("%s must be a whole number", f.label)
		}
		*dst[i] = n
	}
	return row, validateInput(row)
}

func yearlySpec(c *client.Client) resourceSpec {
	fields := []formField{{key: "year", label: "year", required: true, hint: "e.g. 2024-25"}}
	for _, f := range yearlyCounts {
		fields = append(fields, formField{key: f.key, label: f.label, required: true})
	}
	return resourceSpec{
		title: "Yearly",
		columns: []column{
			{"year", 12}, {"carried fwd", 12}, {"received", 10}, {"resolved", 10}, {"pending", 10},
		},
		load: func(ctx context.Context, _ query) (listResult, error) {
			table, err := c.ListYearly(ctx)
			if err != nil {
				return listResult{}, err
			}
			rows := make([]row, 0, len(table))
			for _, y := range table {
				counts := []int{y.CarriedForward, y.Received, y.Resolved, y.Pending}
				cells := []string{y.Year}
				values := map[string]string{"year": y.Year}
				for i, f := range yearlyCounts {
					cells = append(cells, strconv.Itoa(counts[i]))
					values[f.key] = strconv.Itoa(counts[i])
				}
				rows = append(rows, row{id: y.ID, cells: cells, values: values})
			}
			return listResult{rows: rows}, nil
		},
		remove: func(ctx context.Context, _ query, id string) error {
			return c.DeleteYearly(ctx, id)
		},
		fields: fields,
		create: func(ctx context.Context, _ query, v map[string]string) error {
			y, err := yearlyRow(v)
			if err != nil {
				return err
			}
			return c.CreateYearly(ctx, y)
		},
		update: func(ctx context.Context, _ query, id string, v map[string]string) error {
			y, err := yearlyRow(v)
			if err != nil {
				return err
			}
			return c.UpdateYearly(ctx, id, y)
		},
		empty: "no yearly figures yet",
	}
}

// eventSpec shows the site banner as a list of at most one row.
func eventSpec(c *client.Client) resourceSpec {
	return resourceSpec{
		title:   "Event",
		columns: []column{{"banner image", 72}},
		load: func(ctx context.Context, _ query) (listResult, error) {
			ev, err := c.GetEvent(ctx)
			if err != nil {
				return listResult{}, err
			}
			if ev.Image == "" {
				return listResult{}, nil
			}
			id := ev.ID
			if id == "" {
				id = "event"
			}
			return listResult{rows: []row{{id: id, cells: []string{ev.Image}, link: ev.Image}}}, nil
		},
		remove: func(ctx context.Context, _ query, _ string) error {
			return c.DeleteEvent(ctx)
		},
		fields: []formField{
			{key: "image", label: "image", required: true, hint: "path to image file, replaces the banner"},
		},
		create: func(ctx context.Context, _ query, v map[string]string) error {
			_, err := c.UploadEvent(ctx, strings.TrimSpace(v["image"]))
			return err
		},
		empty: "no event banner, press n to upload one",
	}
}

// pdfRows flattens groups ordered by container title, keeping server order
// within a container.
func pdfRows(groups domain.PDFGroups) []row {
	titles := make([]string, 0, len(groups))
	for t := range groups {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	var rows []row
	for _, t := range titles {
		for _, p := range groups[t] {
			rows = append(rows, row{
				id:    p.ID,
				cells: []string{t, p.OriginalName},
				link:  p.URL,
			})
		}
	}
	return rows
}

func pdfSpec(c *client.Client) resourceSpec {
	return resourceSpec{
		title:   "PDFs",
		columns: []column{{"container", 20}, {"file", 48}},
		load: func(ctx context.Context, _ query) (listResult, error) {
			groups, err := c.ListPDFs(ctx)
			if err != nil {
				return listResult{}, err
			}
			return listResult{rows: pdfRows(groups)}, nil
		},
		remove: func(ctx context.Context, _ query, id string) error {
			return c.DeletePDF(ctx, id)
		},
		fields: []formField{
			{key: "title", label: "container", required: true, hint: "e.g. June"},
			{key: "file", label: "file", required: true, hint: "path to .pdf"},
		},
		create: func(ctx context.Context, _ query, v map[string]string) error {
			return c.UploadPDF(ctx, v["title"], v["file"])
		},
		empty: "no PDFs uploaded",
	}
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func carouselSpec(c *client.Client) resourceSpec {
	variant := func(q query) domain.CarouselVariant {
		return domain.CarouselVariant(q.variant)
	}
	return resourceSpec{
		title:    "Carousel",
		columns:  []column{{"image", 60}, {"state", 8}},
		variants: []string{domain.CarouselDesktop.String(), domain.CarouselSmallScreen.String()},
		load: func(ctx context.Context, q query) (listResult, error) {
			imgs, err := c.ListCarousel(ctx, variant(q))
			if err != nil {
				return listResult{}, err
			}
			rows := make([]row, 0, len(imgs))
			for _, img := range imgs {
				state := ""
				if img.Active {
					state = "active"
				}
				rows = append(rows, row{
					id:     img.ID,
					cells:  []string{img.URL, state},
					link:   img.URL,
					marked: img.Active,
				})
			}
			return listResult{rows: rows}, nil
		},
		remove: func(ctx context.Context, q query, id string) error {
			return c.DeleteCarouselImage(ctx, variant(q), id)
		},
		fields: []formField{
			{key: "images", label: "images", required: true, hint: "paths, comma separated"},
		},
		create: func(ctx context.Context, q query, v map[string]string) error {
			return c.AddCarouselImages(ctx, variant(q), splitList(v["images"])...)
		},
		actions: []action{
			{key: "a", label: "activate", onRow: true, run: func(ctx context.Context, q query, r row) (string, error) {
				return "slide activated", c.ActivateCarouselImage(ctx, variant(q), r.id)
			}},
		},
		empty: "no slides, press n to upload",
	}
}

func userSpec(c *client.Client, now func() time.Time) resourceSpec {
	return resourceSpec{
		title:   "Users",
		columns: []column{{"name", 28}, {"phone", 16}, {"joined", 10}},
		load: func(ctx context.Context, _ query) (listResult, error) {
			users, err := c.ListSiteUsers(ctx)
			if err != nil {
				return listResult{}, err
			}
			t := now()
			rows := make([]row, 0, len(users))
			for _, u := range users {
				rows = append(rows, row{
					id:     u.ID,
					cells:  []string{u.DisplayName(), u.DisplayPhone(), formatTime(u.CreatedAt, t)},
					marked: u.IsNew(t),
				})
			}
			return listResult{rows: rows}, nil
		},
		empty: "no registered users",
	}
}

func settingsForm(c *client.Client) formModel {
	fields := []formField{
		{key: "email", label: "email", required: true},
		{key: "currentPassword", label: "current password", required: true, secret: true},
		{key: "newPassword", label: "new password", required: true, secret: true},
	}
	return newFormModel(viewSettings, "Admin credentials", fields, func(ctx context.Context, _ string, v map[string]string) error {
		req := client.CredentialsUpdate{
			Email:           v["email"],
			CurrentPassword: v["currentPassword"],
			NewPassword:     v["newPassword"],
		}
		if err := validateInput(req); err != nil {
			return err
		}
		return c.UpdateCredentials(ctx, req)
	})
}
